package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:    PhaseDecode,
				Kind:     KindInvalidTag,
				Path:     []string{"types", "3", "def"},
				GoType:   "schema.TypeDef",
				TypeName: "TypeDef",
				Detail:   "unknown tag 9",
			},
			contains: []string{"[decode]", "invalid_tag", "types.3.def", "schema.TypeDef", "TypeDef", "unknown tag 9"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindOutOfBounds,
			},
			contains: []string{"[decode]", "out_of_bounds"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseStore,
				Kind:   KindInvalidData,
				Detail: "insert failed",
				Cause:  errors.New("disk full"),
			},
			contains: []string{"[store]", "invalid_data", "insert failed", "caused by", "disk full"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(PhaseLoad, KindInvalidData, cause, "read table")

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is did not find cause in chain")
	}
}

func TestError_Is(t *testing.T) {
	err := New(PhaseDecode, KindInvalidData).Path("types").Detail("truncated").Build()

	if !errors.Is(err, &Error{Phase: PhaseDecode, Kind: KindInvalidData}) {
		t.Error("expected match on phase and kind")
	}
	if errors.Is(err, &Error{Phase: PhaseEncode, Kind: KindInvalidData}) {
		t.Error("unexpected match with different phase")
	}
	if errors.Is(err, &Error{Phase: PhaseDecode, Kind: KindOverflow}) {
		t.Error("unexpected match with different kind")
	}
}

func TestBuilder(t *testing.T) {
	err := New(PhaseBuild, KindInvalidShape).
		Path("Foo", "bar").
		GoType("main.Foo").
		TypeName("Foo").
		Value(3).
		Detail("field %d mixes named and unnamed", 3).
		Build()

	if err.Detail != "field 3 mixes named and unnamed" {
		t.Errorf("Detail = %q", err.Detail)
	}
	if err.Value != 3 {
		t.Errorf("Value = %v", err.Value)
	}
	if strings.Join(err.Path, ".") != "Foo.bar" {
		t.Errorf("Path = %v", err.Path)
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		err  *Error
		kind Kind
	}{
		{InvalidData(PhaseDecode, nil, "x"), KindInvalidData},
		{InvalidTag(PhaseDecode, nil, "TypeDef", 9), KindInvalidTag},
		{InvalidUTF8(PhaseDecode, nil, []byte{0xff}), KindInvalidUTF8},
		{OutOfBounds(PhaseDecode, nil, 4, 2), KindOutOfBounds},
		{Unsupported(PhaseExport, "recursive type"), KindUnsupported},
		{InvalidShape(nil, "bad"), KindInvalidShape},
		{MissingPath("composite"), KindMissingPath},
		{Incomplete(3, "Foo"), KindIncomplete},
		{NotFound(PhaseStore, "table", "x"), KindNotFound},
		{InvalidInput(PhaseRegister, "nil def"), KindInvalidInput},
		{NotInitialized(PhaseStore, "catalog"), KindNotInitialized},
		{Load("read", errors.New("boom")), KindInvalidData},
	}
	for _, tt := range tests {
		if tt.err.Kind != tt.kind {
			t.Errorf("%s: Kind = %s, want %s", tt.err.Error(), tt.err.Kind, tt.kind)
		}
		if tt.err.Error() == "" {
			t.Error("empty message")
		}
	}
}

func TestPathError_Is(t *testing.T) {
	missing := &PathError{Reason: MissingSegments}
	invalid := &PathError{Reason: InvalidIdentifier, SegmentIndex: 1, Segment: ", World!"}

	if !errors.Is(missing, ErrMissingSegments) {
		t.Error("missing segments should match sentinel")
	}
	if errors.Is(missing, ErrInvalidIdentifier) {
		t.Error("missing segments should not match invalid identifier")
	}
	if !errors.Is(invalid, ErrInvalidIdentifier) {
		t.Error("invalid identifier should match sentinel")
	}
	if !errors.Is(invalid, &PathError{Reason: InvalidIdentifier, SegmentIndex: 1}) {
		t.Error("same index should match")
	}
	if errors.Is(invalid, &PathError{Reason: InvalidIdentifier, SegmentIndex: 0}) {
		t.Error("different index should not match")
	}

	var pe *PathError
	if !errors.As(invalid, &pe) || pe.SegmentIndex != 1 {
		t.Errorf("errors.As failed: %v", pe)
	}
	if !strings.Contains(invalid.Error(), "segment 1") {
		t.Errorf("message %q lacks segment index", invalid.Error())
	}
}
