package app

import (
	"github.com/specialistvlad/mashgo/internal/registry"
	"github.com/specialistvlad/mashgo/modules/bmc"
	"github.com/specialistvlad/mashgo/modules/env"
)

// coreModules is the definitive list of all plugins that are compiled into
// the mash binary.
var coreModules = []registry.Module{
	&bmc.Module{},
	&env.Module{},
}
