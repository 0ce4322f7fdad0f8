package main

import (
	"os"

	"vppu/emu"
	"vppu/emu/log"
)

func main() {
	conf := emu.LoadConfigOrDefault()
	for _, name := range conf.General.LogModules {
		if m, ok := log.ModuleByName(name); ok {
			log.EnableDebugModules(m.Mask())
		} else {
			log.ModEmu.WarnZ("unknown log module in config").String("name", name).End()
		}
	}

	cli := parseArgs(os.Args[1:])

	switch cli.mode {
	case sceneInfos:
		infosMain(cli.SceneInfos)
	case versionMode:
		versionMain()
	default:
		renderMain(cli.Render, conf)
	}
}
