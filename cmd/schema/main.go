package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"raidplan/internal/planner"
)

func main() {
	var out string
	flag.StringVar(&out, "out", "schema/snapshot.schema.json", "schema file")
	flag.Parse()

	if err := save(out, snapshotSchema()); err != nil {
		log.Fatalf("schema: %v", err)
	}
	log.Printf("snapshot schema v%d written to %s", planner.SnapshotVersion, out)
}

// snapshotSchema describes the document the planner hands to whatever
// stores plans. Unknown keys are tolerated so older readers keep working.
func snapshotSchema() *jsonschema.Schema {
	r := jsonschema.Reflector{AllowAdditionalProperties: true}
	s := r.Reflect(new(planner.Snapshot))
	s.Title = "raidplan snapshot"
	s.Description = fmt.Sprintf("Plan snapshot, version %d: settings, team and committed timeline", planner.SnapshotVersion)
	return s
}

// save writes through a temp file so a reader never sees half a schema.
func save(path string, s *jsonschema.Schema) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(planner.MarshalPretty(s), '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
