package sarc

// aglEnvAlignments mirrors the subset of Nintendo's AGL resource-factory
// alignment table (aglenv_file_info) that is publicly documented for
// Breath of the Wild: most registered resource extensions require 8-byte
// alignment, with a handful of binary formats needing more. The extensions
// here double as the "factory name" set consulted by alignmentForFile: an
// extension present in this table is treated as a known BOTW resource type,
// exempting it from the generic new-binary-file heuristic unless legacy
// mode is requested.
var aglEnvAlignments = map[string]uint64{
	"sarc":        4,
	"bactorpack":  4,
	"bmodelsh":    4,
	"beventpack":  4,
	"stera":       4,
	"stats":       4,
	"bplacement":  4,
	"blarc":       4,
	"bagshare":    4,
	"bgsv":        4,
	"bsarc":       4,
	"bshop":       4,
	"brgcon":      4,
	"bgparamlist": 8,
	"bgparamlis":  8,
	"baiprog":     8,
	"bas":         8,
	"baslist":     8,
	"baischedule": 8,
	"bphysics":    8,
	"bchemical":   8,
	"bdmgparam":   8,
	"bxml":        8,
	"brgbcm":      8,
	"brecipe":     8,
	"bassetting":  8,
	"bawareness":  8,
	"bshop2":      8,
	"bdrop":       8,
	"bvarinfo":    8,
	"bfres":       8,
	"byaml":       4,
	"hkcl":        8,
	"hkrg":        8,
	"hksc":        8,
	"hktmrb":      8,
	"hkx":         8,
	"lwcskeleton": 0x10,
	"tsc":         4,
}

// botwFactoryExtensions reuses aglEnvAlignments' key set: every extension
// the AGL table registers is, for this purpose, a recognized factory-backed
// resource type.
var botwFactoryExtensions = func() map[string]bool {
	out := make(map[string]bool, len(aglEnvAlignments))
	for ext := range aglEnvAlignments {
		out[ext] = true
	}
	return out
}()
