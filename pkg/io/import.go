package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/idlgraph/pkg/errors"
	"github.com/matzehuels/idlgraph/pkg/model"
)

// Format names a model document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension: .yaml and .yml
// are YAML, everything else is JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Document is the model document written by the model loader.
type Document struct {
	Packages model.Forest `json:"packages" yaml:"packages"`
}

// ReadModel decodes a model document from r and returns its linked forest.
//
// The input is an object with a "packages" array of root packages:
//
//	{
//	  "packages": [
//	    {"package_id": 1, "name": "core", "classes": [
//	      {"object_id": 10, "name": "Point", "attributes": [{"name": "x", "type": "double"}]}
//	    ]}
//	  ]
//	}
//
// Unknown fields are rejected. ReadModel returns an error coded
// errors.ErrCodeInvalidModel when two packages or two classes share an id.
// ReadModel does not close r.
func ReadModel(r io.Reader, format Format) (model.Forest, error) {
	var doc Document
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode")
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode")
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported model format %q", format)
	}

	if err := validate(doc.Packages); err != nil {
		return nil, err
	}
	model.Link(doc.Packages)
	return doc.Packages, nil
}

func validate(f model.Forest) error {
	packages := make(map[int64]string)
	classes := make(map[int64]string)
	var err error
	model.WalkPackages(f, func(p *model.Package) {
		if err != nil {
			return
		}
		if prev, dup := packages[p.PackageID]; dup {
			err = errors.New(errors.ErrCodeInvalidModel, "package id %d used by %s and %s", p.PackageID, prev, p.Name)
			return
		}
		packages[p.PackageID] = p.Name
		for _, c := range p.Classes {
			if prev, dup := classes[c.ObjectID]; dup {
				err = errors.New(errors.ErrCodeInvalidModel, "object id %d used by %s and %s", c.ObjectID, prev, c.Name)
				return
			}
			classes[c.ObjectID] = c.Name
		}
	})
	return err
}

// ImportModel reads the model document at path, choosing the format with
// [FormatFromPath].
func ImportModel(path string) (model.Forest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	f, err := ReadModel(bytes.NewReader(data), FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}
