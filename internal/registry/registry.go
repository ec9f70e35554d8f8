// Package registry serves the static skill documents shipped with gitpulse.
package registry

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/huangsam/gitpulse/schema"
	"gopkg.in/yaml.v3"
)

// IndexFile is the registry index at the root of a registry.
const IndexFile = "registry.json"

// SkillFile is the document of one skill, inside the skill's directory.
const SkillFile = "SKILL.md"

// ErrNotFound is returned when a skill does not exist.
var ErrNotFound = errors.New("skill not found")

// ErrInvalidID is returned for ids that could name a path outside the registry.
var ErrInvalidID = errors.New("invalid skill id")

var validID = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

//go:embed skills
var builtinFS embed.FS

// Registry reads skills from a file system root.
type Registry struct {
	fsys fs.FS
}

// New returns a registry rooted at fsys.
func New(fsys fs.FS) *Registry {
	return &Registry{fsys: fsys}
}

// Builtin returns the registry compiled into the binary.
func Builtin() *Registry {
	sub, err := fs.Sub(builtinFS, "skills")
	if err != nil {
		panic(err) // The embedded directory always exists
	}
	return New(sub)
}

// Open returns the registry at root, or the built-in one when root is empty.
func Open(root string) *Registry {
	if root == "" {
		return Builtin()
	}
	return New(os.DirFS(root))
}

// List returns the registry index.
func (r *Registry) List() ([]schema.SkillEntry, error) {
	raw, err := fs.ReadFile(r.fsys, IndexFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read skill registry: %w", err)
	}
	entries := []schema.SkillEntry{}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", IndexFile, err)
	}
	return entries, nil
}

// Get returns one skill document with its front matter parsed.
func (r *Registry) Get(id string) (schema.Skill, error) {
	if !validID.MatchString(id) {
		return schema.Skill{}, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	raw, err := fs.ReadFile(r.fsys, id+"/"+SkillFile)
	if errors.Is(err, fs.ErrNotExist) {
		return schema.Skill{}, fmt.Errorf("%w: skill '%s' not found", ErrNotFound, id)
	}
	if err != nil {
		return schema.Skill{}, fmt.Errorf("failed to read skill %s: %w", id, err)
	}

	content := string(raw)
	metadata, body, err := splitFrontMatter(content)
	if err != nil {
		return schema.Skill{}, fmt.Errorf("skill %s has invalid front matter: %w", id, err)
	}
	return schema.Skill{ID: id, Metadata: metadata, Body: body, Content: content}, nil
}

// splitFrontMatter separates a leading YAML block between --- lines from the
// markdown body. A document without one has no metadata.
func splitFrontMatter(content string) (map[string]any, string, error) {
	lines := strings.SplitAfter(content, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return nil, content, nil
	}

	var fmLines []string
	offset := len(lines[0])
	closed := false
	for _, line := range lines[1:] {
		// Offsets count raw bytes so CRLF documents slice at the right place.
		offset += len(line)
		if strings.TrimSpace(line) == "---" {
			closed = true
			break
		}
		fmLines = append(fmLines, strings.TrimRight(line, "\r\n"))
	}
	if !closed {
		return nil, content, nil
	}

	metadata := make(map[string]any)
	if err := yaml.Unmarshal([]byte(strings.Join(fmLines, "\n")), &metadata); err != nil {
		return nil, "", err
	}
	return metadata, content[offset:], nil
}
