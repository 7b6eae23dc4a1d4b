package event

import "github.com/pkg/errors"

// Formats lists the supported input formats.
var Formats = []string{"root", "lcio", "proio"}

// Open builds a FileStream over files in the given format. For ROOT files
// collection is the tree name; for LCIO and proio it names the jet
// collection (tag).
func Open(name, format, collection string, files []string) (*FileStream, error) {
	var reader FileReader
	switch format {
	case "root":
		if collection == "" {
			collection = "Events"
		}
		reader = RootReader{Tree: collection}
	case "lcio":
		if collection == "" {
			collection = "Jets"
		}
		reader = LCIOReader{Jets: collection, MET: "MissingET"}
	case "proio":
		if collection == "" {
			collection = "Jet"
		}
		reader = ProioReader{JetTag: collection, METTag: "MET", IDTag: "JetID"}
	default:
		return nil, errors.Errorf("unknown input format %q", format)
	}
	return NewFileStream(name, files, reader)
}
