package section

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"unicode/utf8"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	"github.com/wippyai/typeinfo/errors"
	"github.com/wippyai/typeinfo/portable"
)

// DefaultName is the custom section name used for type tables.
const DefaultName = "typeinfo"

const (
	magic         uint32 = 0x6D736100
	moduleVersion uint32 = 0x01
	// component binaries carry version 0x0d and layer 0x01
	componentVersion uint32 = 0x0001000d

	sectionCustom byte = 0
	headerSize         = 8
)

// Custom is one custom section of a binary.
type Custom struct {
	Name string
	Data []byte
}

// IsComponent reports whether data is a component binary rather than a
// core module.
func IsComponent(data []byte) bool {
	return len(data) >= headerSize &&
		binary.LittleEndian.Uint32(data) == magic &&
		binary.LittleEndian.Uint32(data[4:]) == componentVersion
}

func checkHeader(data []byte) error {
	if len(data) < headerSize || binary.LittleEndian.Uint32(data) != magic {
		return errors.InvalidData(errors.PhaseSection, []string{"header"}, "invalid wasm magic number")
	}
	switch binary.LittleEndian.Uint32(data[4:]) {
	case moduleVersion, componentVersion:
		return nil
	}
	return errors.InvalidData(errors.PhaseSection, []string{"header"}, "invalid wasm version")
}

type rawSection struct {
	id    byte
	name  string // custom sections only
	data  []byte // custom section payload, after the name
	start int
	end   int
}

// scan splits a binary into its top-level sections.
func scan(data []byte) ([]rawSection, error) {
	if err := checkHeader(data); err != nil {
		return nil, err
	}
	r := bytes.NewReader(data[headerSize:])
	var out []rawSection
	for {
		start := len(data) - r.Len()
		id, err := r.ReadByte()
		if err == io.EOF {
			return out, nil
		}
		size, err := readLEB128u(r)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseSection, errors.KindInvalidData, err, "section size")
		}
		if int(size) > r.Len() {
			return nil, errors.OutOfBounds(errors.PhaseSection, []string{"section"}, int(size), r.Len())
		}
		body := make([]byte, size)
		_, _ = r.Read(body)
		s := rawSection{id: id, start: start, end: len(data) - r.Len()}
		if id == sectionCustom {
			br := bytes.NewReader(body)
			n, err := readLEB128u(br)
			if err != nil || int(n) > br.Len() {
				return nil, errors.InvalidData(errors.PhaseSection, []string{"custom"}, "malformed section name")
			}
			name := body[len(body)-br.Len():][:n]
			if !utf8.Valid(name) {
				return nil, errors.InvalidUTF8(errors.PhaseSection, []string{"custom"}, name)
			}
			s.name = string(name)
			s.data = body[len(body)-br.Len()+int(n):]
		}
		out = append(out, s)
	}
}

// Sections lists the custom sections of a module or component in order.
func Sections(data []byte) ([]Custom, error) {
	raw, err := scan(data)
	if err != nil {
		return nil, err
	}
	var out []Custom
	for _, s := range raw {
		if s.id == sectionCustom {
			out = append(out, Custom{Name: s.name, Data: s.data})
		}
	}
	return out, nil
}

// Embed returns a copy of module with table stored in the custom section
// name. Existing sections with that name are removed first.
func Embed(module []byte, name string, table []byte) ([]byte, error) {
	if name == "" {
		return nil, errors.InvalidInput(errors.PhaseSection, "empty section name")
	}
	if !utf8.ValidString(name) {
		return nil, errors.InvalidUTF8(errors.PhaseSection, []string{"name"}, []byte(name))
	}
	raw, err := scan(module)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	out.Grow(len(module) + len(name) + len(table) + 16)
	out.Write(module[:headerSize])
	replaced := 0
	for _, s := range raw {
		if s.id == sectionCustom && s.name == name {
			replaced++
			continue
		}
		out.Write(module[s.start:s.end])
	}

	var body bytes.Buffer
	writeLEB128u(&body, uint32(len(name)))
	body.WriteString(name)
	body.Write(table)

	out.WriteByte(sectionCustom)
	writeLEB128u(&out, uint32(body.Len()))
	out.Write(body.Bytes())

	Logger().Debug("section embedded",
		zap.String("name", name),
		zap.Int("bytes", len(table)),
		zap.Int("replaced", replaced))
	return out.Bytes(), nil
}

// EmbedRegistry encodes reg and embeds it under name.
func EmbedRegistry(module []byte, name string, reg *portable.Registry) ([]byte, error) {
	table, err := reg.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return Embed(module, name, table)
}

// Extractor reads custom sections through a shared wazero runtime.
type Extractor struct {
	runtime wazero.Runtime
}

// NewExtractor creates an extractor whose runtime keeps custom sections.
func NewExtractor(ctx context.Context) *Extractor {
	cfg := wazero.NewRuntimeConfig().WithCustomSections(true)
	return &Extractor{runtime: wazero.NewRuntimeWithConfig(ctx, cfg)}
}

// Close releases the runtime.
func (e *Extractor) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// Extract returns the data of the last custom section called name.
// Core modules must compile; components are scanned without compiling.
func (e *Extractor) Extract(ctx context.Context, module []byte, name string) ([]byte, error) {
	if IsComponent(module) {
		return extractScanned(module, name)
	}
	if err := checkHeader(module); err != nil {
		return nil, err
	}

	compiled, err := e.runtime.CompileModule(ctx, module)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseSection, errors.KindInvalidData, err, "compile module")
	}
	defer compiled.Close(ctx)

	var (
		data  []byte
		found bool
	)
	for _, cs := range compiled.CustomSections() {
		if cs.Name() == name {
			data, found = cs.Data(), true
		}
	}
	if !found {
		return nil, errors.NotFound(errors.PhaseSection, "custom section", name)
	}
	Logger().Debug("section extracted", zap.String("name", name), zap.Int("bytes", len(data)))
	return append([]byte(nil), data...), nil
}

// ExtractRegistry extracts and decodes the table stored under name.
func (e *Extractor) ExtractRegistry(ctx context.Context, module []byte, name string) (*portable.Registry, error) {
	data, err := e.Extract(ctx, module, name)
	if err != nil {
		return nil, err
	}
	return portable.Decode(data)
}

// Extract is a one-shot Extractor.Extract.
func Extract(ctx context.Context, module []byte, name string) ([]byte, error) {
	e := NewExtractor(ctx)
	defer e.Close(ctx)
	return e.Extract(ctx, module, name)
}

func extractScanned(module []byte, name string) ([]byte, error) {
	sections, err := Sections(module)
	if err != nil {
		return nil, err
	}
	for i := len(sections) - 1; i >= 0; i-- {
		if sections[i].Name == name {
			return sections[i].Data, nil
		}
	}
	return nil, errors.NotFound(errors.PhaseSection, "custom section", name)
}
