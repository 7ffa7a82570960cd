// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

// Package seed loads world definitions and bootstraps a repository from them.
package seed

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/samber/oops"
	"gopkg.in/yaml.v3"

	"github.com/lanternmush/lantern/internal/world"
)

//go:embed default.yaml
var defaultWorld []byte

// Definition is a complete world definition file.
type Definition struct {
	// StartRoom is where new players appear.
	StartRoom string      `json:"start_room" yaml:"start_room" jsonschema:"required,minLength=1,pattern=^[a-z0-9]+(-[a-z0-9]+)*$,description=Room new players start in"`
	Rooms     []RoomDef   `json:"rooms" yaml:"rooms" jsonschema:"required,minItems=1"`
	Objects   []ObjectDef `json:"objects,omitempty" yaml:"objects,omitempty"`
}

// RoomDef defines one room.
type RoomDef struct {
	ID    string `json:"id" yaml:"id" jsonschema:"required,pattern=^[a-z0-9]+(-[a-z0-9]+)*$"`
	Name  string `json:"name" yaml:"name" jsonschema:"required,minLength=1,maxLength=100"`
	Short string `json:"short" yaml:"short" jsonschema:"required,minLength=1,maxLength=4000"`
	Long  string `json:"long,omitempty" yaml:"long,omitempty" jsonschema:"maxLength=4000"`
	Enter string `json:"enter,omitempty" yaml:"enter,omitempty" jsonschema:"description=Narration shown to a room when someone arrives"`
	Exit  string `json:"exit,omitempty" yaml:"exit,omitempty" jsonschema:"description=Narration shown to a room when someone leaves"`
	// Exits maps exit labels to target room IDs.
	Exits map[string]string `json:"exits,omitempty" yaml:"exits,omitempty"`
}

// ObjectDef defines one object lying in a room.
type ObjectDef struct {
	ID          string            `json:"id" yaml:"id" jsonschema:"required,pattern=^[a-z0-9]+(-[a-z0-9]+)*$"`
	Name        string            `json:"name" yaml:"name" jsonschema:"required,minLength=1,maxLength=100"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty" jsonschema:"maxLength=4000"`
	Text        *string           `json:"text,omitempty" yaml:"text,omitempty" jsonschema:"description=Writeable text content"`
	Flags       []string          `json:"flags,omitempty" yaml:"flags,omitempty" jsonschema:"uniqueItems=true"`
	Key         string            `json:"key,omitempty" yaml:"key,omitempty" jsonschema:"description=ID of the object that locks and unlocks this one"`
	Room        string            `json:"room" yaml:"room" jsonschema:"required"`
	Verbs       map[string]string `json:"verbs,omitempty" yaml:"verbs,omitempty" jsonschema:"description=Lua source keyed by verb name"`
}

// Default returns the embedded default world.
func Default() (*Definition, error) {
	def, err := Parse(defaultWorld)
	if err != nil {
		return nil, oops.With("source", "embedded").Wrap(err)
	}
	return def, nil
}

// LoadFile reads and parses a world definition file.
func LoadFile(path string) (*Definition, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, oops.Code("SEED_READ_FAILED").With("path", path).Wrap(err)
	}
	def, err := Parse(data)
	if err != nil {
		return nil, oops.With("path", path).Wrap(err)
	}
	return def, nil
}

// Parse validates data against the definition schema, decodes it and checks
// the references between its entries.
func Parse(data []byte) (*Definition, error) {
	if err := ValidateSchema(data); err != nil {
		return nil, err
	}
	var def Definition
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return nil, oops.Code(CodeInvalid).Wrap(err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Validate checks what the schema cannot: unique IDs, resolvable exits,
// keys and rooms, known flags and valid exit labels.
func (d *Definition) Validate() error {
	var problems []string
	rooms := make(map[string]bool, len(d.Rooms))
	for _, r := range d.Rooms {
		if rooms[r.ID] {
			problems = append(problems, fmt.Sprintf("room %q is defined twice", r.ID))
		}
		rooms[r.ID] = true
	}
	if !rooms[d.StartRoom] {
		problems = append(problems, fmt.Sprintf("start room %q is not defined", d.StartRoom))
	}
	for _, r := range d.Rooms {
		if world.Slugify(r.ID) != r.ID {
			problems = append(problems, fmt.Sprintf("room id %q is not a slug", r.ID))
		}
		for _, label := range sortedKeys(r.Exits) {
			if err := world.ValidateExitLabel(label); err != nil {
				problems = append(problems, fmt.Sprintf("room %q exit %q: %v", r.ID, label, err))
			}
			if target := r.Exits[label]; !rooms[target] {
				problems = append(problems, fmt.Sprintf("room %q exit %q leads to undefined room %q", r.ID, label, target))
			}
		}
	}

	objects := make(map[string]bool, len(d.Objects))
	for _, o := range d.Objects {
		if objects[o.ID] {
			problems = append(problems, fmt.Sprintf("object %q is defined twice", o.ID))
		}
		objects[o.ID] = true
	}
	for _, o := range d.Objects {
		if !rooms[o.Room] {
			problems = append(problems, fmt.Sprintf("object %q is in undefined room %q", o.ID, o.Room))
		}
		if o.Key != "" && !objects[o.Key] {
			problems = append(problems, fmt.Sprintf("object %q has undefined key %q", o.ID, o.Key))
		}
		if _, err := world.ParseFlags(o.Flags); err != nil {
			problems = append(problems, fmt.Sprintf("object %q: %v", o.ID, err))
		}
	}

	if len(problems) > 0 {
		return oops.Code(CodeInvalid).
			With("problems", problems).
			Errorf("world definition has %d problem(s): %v", len(problems), problems)
	}
	return nil
}

// Build converts the definition into world entities. Every entity is
// stamped with createdAt so re-seeding produces identical rows.
func (d *Definition) Build(createdAt time.Time) ([]*world.Room, []*world.Object, error) {
	rooms := make([]*world.Room, 0, len(d.Rooms))
	for _, rd := range d.Rooms {
		r, err := world.NewRoomWithID(world.RoomID(rd.ID), rd.Name, rd.Short)
		if err != nil {
			return nil, nil, oops.Code(CodeInvalid).With("room_id", rd.ID).Wrap(err)
		}
		r.LongDescription = rd.Long
		r.EnterText = rd.Enter
		r.ExitText = rd.Exit
		r.CreatedAt = createdAt
		for label, target := range rd.Exits {
			r.Exits[label] = world.RoomID(target)
		}
		rooms = append(rooms, r)
	}

	objects := make([]*world.Object, 0, len(d.Objects))
	for _, od := range d.Objects {
		o, err := world.NewObjectWithID(world.ObjectID(od.ID), od.Name, od.Description)
		if err != nil {
			return nil, nil, oops.Code(CodeInvalid).With("object_id", od.ID).Wrap(err)
		}
		if len(od.Flags) > 0 {
			flags, err := world.ParseFlags(od.Flags)
			if err != nil {
				return nil, nil, oops.Code(CodeInvalid).With("object_id", od.ID).Wrap(err)
			}
			o.Flags = flags
		}
		if od.Text != nil {
			text := *od.Text
			o.TextContent = &text
		}
		if od.Key != "" {
			key := world.ObjectID(od.Key)
			o.KeyID = &key
		}
		room := world.RoomID(od.Room)
		o.LocationID = &room
		if len(od.Verbs) > 0 {
			o.Verbs = make(map[string]string, len(od.Verbs))
			for verb, code := range od.Verbs {
				o.Verbs[verb] = code
			}
		}
		o.CreatedAt = createdAt
		objects = append(objects, o)
	}
	return rooms, objects, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
