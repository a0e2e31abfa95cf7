package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/n-v-nam/github-quickactions/internal/domain"
	"github.com/spf13/afero"
)

// manifestService is the implementation of the ManifestService interface.
type manifestService struct {
	fs afero.Fs
}

// NewManifestService creates a ManifestService over fs.
func NewManifestService(fs afero.Fs) ManifestService {
	return &manifestService{fs: fs}
}

func (s *manifestService) ReadManifest(_ context.Context, dir string) (*domain.Manifest, error) {
	path := filepath.Join(dir, domain.ManifestFile)
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var manifest domain.Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	manifest.Path = path
	return &manifest, nil
}

func (s *manifestService) ReadVersion(ctx context.Context, dir string) (string, error) {
	manifest, err := s.ReadManifest(ctx, dir)
	if err != nil {
		return "", err
	}
	if manifest.Version == "" {
		return "", fmt.Errorf("%w: %s has no version field", domain.ErrInvalidVersion, manifest.Path)
	}
	return manifest.Version, nil
}

func (s *manifestService) WriteVersion(_ context.Context, dir string, version string) error {
	path := filepath.Join(dir, domain.ManifestFile)
	doc, err := s.load(path)
	if err != nil {
		return err
	}
	if err := doc.setString("version", version); err != nil {
		return err
	}
	return s.save(path, doc)
}

func (s *manifestService) UpdateDependency(_ context.Context, dir string, pkg string, version string) (bool, error) {
	path := filepath.Join(dir, domain.ManifestFile)
	doc, err := s.load(path)
	if err != nil {
		return false, err
	}
	updated := false
	for _, section := range []string{"dependencies", "devDependencies"} {
		raw, ok := doc.values[section]
		if !ok {
			continue
		}
		deps, err := parseOrderedObject(raw)
		if err != nil {
			return false, fmt.Errorf("failed to parse %s in %s: %w", section, path, err)
		}
		if _, ok := deps.values[pkg]; !ok {
			continue
		}
		if err := deps.setString(pkg, version); err != nil {
			return false, err
		}
		encoded, err := deps.marshal()
		if err != nil {
			return false, err
		}
		doc.values[section] = encoded
		updated = true
	}
	if !updated {
		return false, nil
	}
	return true, s.save(path, doc)
}

func (s *manifestService) load(path string) (*orderedObject, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := parseOrderedObject(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return doc, nil
}

// save writes doc indented by two spaces with a trailing newline.
func (s *manifestService) save(path string, doc *orderedObject) error {
	compact, err := doc.marshal()
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", manifestIndent); err != nil {
		return fmt.Errorf("failed to format %s: %w", path, err)
	}
	out.WriteByte('\n')
	if err := afero.WriteFile(s.fs, path, out.Bytes(), manifestFileMode); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// orderedObject is a JSON object that remembers the order of its keys.
type orderedObject struct {
	keys   []string
	values map[string]json.RawMessage
}

func parseOrderedObject(data []byte) (*orderedObject, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected a JSON object")
	}
	obj := &orderedObject{values: map[string]json.RawMessage{}}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected an object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		obj.set(key, raw)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

func (o *orderedObject) set(key string, raw json.RawMessage) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = raw
}

func (o *orderedObject) setString(key, value string) error {
	raw, err := encodeJSON(value)
	if err != nil {
		return err
	}
	o.set(key, raw)
	return nil
}

func (o *orderedObject) marshal() (json.RawMessage, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		encodedKey, err := encodeJSON(key)
		if err != nil {
			return nil, err
		}
		buf.Write(encodedKey)
		buf.WriteByte(':')
		if err := json.Compact(&buf, o.values[key]); err != nil {
			return nil, fmt.Errorf("invalid value for %q: %w", key, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// encodeJSON encodes v without HTML escaping so ranges like ">=1.0.0" stay readable.
func encodeJSON(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
