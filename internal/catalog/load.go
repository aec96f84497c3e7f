package catalog

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/specialistvlad/recipegrid/internal/ctxlog"
	"github.com/specialistvlad/recipegrid/internal/fsutil"
)

// Load reads every *.hcl and *.toml file under path, which may also name a
// single file, and builds the catalog from their combined declarations.
func Load(ctx context.Context, path, actionColumn string) (*Loaded, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading action catalog.", "path", path)

	files, err := fsutil.FindFilesByExtension(path, ".hcl", ".toml")
	if err != nil {
		return nil, fmt.Errorf("failed to find catalog files in %s: %w", path, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl or .toml catalog files found in %s", path)
	}

	combined := &Document{}
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		var doc *Document
		if strings.HasSuffix(file, ".toml") {
			doc, err = ParseTOML(src, file)
		} else {
			doc, err = ParseHCL(src, file)
		}
		if err != nil {
			return nil, err
		}
		combined.Merge(doc)
		logger.Debug("Loaded catalog file.", "file", file, "actions", len(doc.Actions), "property_types", len(doc.PropertyTypes))
	}

	loaded, err := Build(combined, actionColumn)
	if err != nil {
		return nil, err
	}
	logger.Info("Action catalog loaded.", "actions", len(loaded.Actions.All()), "property_types", len(loaded.Properties.IDs()))
	return loaded, nil
}
