// SPDX-License-Identifier: Apache-2.0

package journal

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"sigs.k8s.io/yaml"
)

//go:embed journal.schema.json
var journalSchemaJSON []byte

// Entry is one declared migration unit in the journal. Entries are totally
// ordered by Idx; When is the creation timestamp recorded by the toolchain
// that generated the migration and doubles as the natural key in the
// tracking table.
type Entry struct {
	Idx  int    `json:"idx"`
	When int64  `json:"when"`
	Tag  string `json:"tag"`
}

// Journal is the ordered sequence of migration entries read from a
// drizzle-format `_journal.json` file.
type Journal struct {
	Entries []Entry `json:"entries"`
}

var journalSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(journalSchemaJSON))
	if err != nil {
		panic(err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("journal.schema.json", doc); err != nil {
		panic(err)
	}

	return c.MustCompile("journal.schema.json")
}

// ReadJournal reads and validates a migration journal from `path`. Files
// with a `.yaml` or `.yml` extension are converted to JSON before
// validation; everything else is treated as JSON.
func ReadJournal(path string) (*Journal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading journal file: %w", err)
	}

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		data, err = yaml.YAMLToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("converting journal file to JSON: %w", err)
		}
	}

	return parseJournal(data)
}

func parseJournal(data []byte) (*Journal, error) {
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("reading journal: %w", err)
	}

	if err := journalSchema.Validate(instance); err != nil {
		return nil, fmt.Errorf("validating journal: %w", err)
	}

	var j Journal
	if err := yaml.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parsing journal: %w", err)
	}

	if err := j.validate(); err != nil {
		return nil, err
	}

	return &j, nil
}

// validate enforces the journal-order invariants: indexes strictly
// increasing, timestamps and tags unique.
func (j *Journal) validate() error {
	seenWhen := make(map[int64]string, len(j.Entries))
	seenTag := make(map[string]struct{}, len(j.Entries))

	for i, e := range j.Entries {
		if i > 0 && e.Idx <= j.Entries[i-1].Idx {
			return fmt.Errorf("journal entry %q: index %d is not strictly increasing", e.Tag, e.Idx)
		}
		if other, ok := seenWhen[e.When]; ok {
			return fmt.Errorf("journal entries %q and %q share timestamp %d", other, e.Tag, e.When)
		}
		if _, ok := seenTag[e.Tag]; ok {
			return fmt.Errorf("duplicate journal tag %q", e.Tag)
		}
		seenWhen[e.When] = e.Tag
		seenTag[e.Tag] = struct{}{}
	}

	return nil
}

// ByTag returns the entry with the given tag, if present.
func (j *Journal) ByTag(tag string) (Entry, bool) {
	for _, e := range j.Entries {
		if e.Tag == tag {
			return e, true
		}
	}
	return Entry{}, false
}

// Prefix returns all entries with an index less than or equal to `idx`, in
// journal order.
func (j *Journal) Prefix(idx int) []Entry {
	var out []Entry
	for _, e := range j.Entries {
		if e.Idx > idx {
			break
		}
		out = append(out, e)
	}
	return out
}
