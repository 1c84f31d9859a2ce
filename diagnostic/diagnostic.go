package diagnostic

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"freezedry/internal/common"
)

const (
	CodeBridgeTypeNotFound    = "bridge-type-not-found"
	CodeUnknownMetadataOption = "unknown-metadata-option"
	CodeMalformedMetadata     = "malformed-metadata"
	CodeDuplicatePersistName  = "duplicate-persist-name"
)

// Diagnostics holds every finding of a single Encode or Decode call.
// It is safe for concurrent use.
type Diagnostics struct {
	mu sync.Mutex

	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic is a single finding.
type Diagnostic struct {
	Severity SeverityEnum
	// Code identifies the kind of finding.
	Code    string
	Message string
	// Type is the owner type the finding relates to (if any).
	Type string
	// Path is the dotted node path the finding relates to (if any).
	Path string
}

type SeverityEnum int

const (
	SeverityInfo SeverityEnum = iota
	SeverityWarning
	SeverityError
)

func (s SeverityEnum) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return common.UnknownStr
	}
}

func (d *Diagnostics) AddError(code, message, typ, path string) {
	d.add(&d.Errors, Diagnostic{Severity: SeverityError, Code: code, Message: message, Type: typ, Path: path})
}

func (d *Diagnostics) AddWarning(code, message, typ, path string) {
	d.add(&d.Warnings, Diagnostic{Severity: SeverityWarning, Code: code, Message: message, Type: typ, Path: path})
}

func (d *Diagnostics) AddInfo(code, message, typ, path string) {
	d.add(&d.Infos, Diagnostic{Severity: SeverityInfo, Code: code, Message: message, Type: typ, Path: path})
}

func (d *Diagnostics) add(dst *[]Diagnostic, diag Diagnostic) {
	d.mu.Lock()
	defer d.mu.Unlock()

	*dst = append(*dst, diag)
}

func (d *Diagnostics) HasErrors() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.Errors) > 0
}

// HasCode reports whether any finding of any severity carries the code.
func (d *Diagnostics) HasCode(code string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	hasCode := func(diag Diagnostic) bool { return diag.Code == code }

	return slices.ContainsFunc(d.Errors, hasCode) ||
		slices.ContainsFunc(d.Warnings, hasCode) ||
		slices.ContainsFunc(d.Infos, hasCode)
}

// Len returns the number of findings of every severity.
func (d *Diagnostics) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.Errors) + len(d.Warnings) + len(d.Infos)
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other *Diagnostics) {
	if other == nil || other == d {
		return
	}

	other.mu.Lock()
	errs := slices.Clone(other.Errors)
	warnings := slices.Clone(other.Warnings)
	infos := slices.Clone(other.Infos)
	other.mu.Unlock()

	d.mu.Lock()
	defer d.mu.Unlock()

	d.Errors = append(d.Errors, errs...)
	d.Warnings = append(d.Warnings, warnings...)
	d.Infos = append(d.Infos, infos...)
}

// Error returns a combined error from all error diagnostics, or nil.
func (d *Diagnostics) Error() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.Errors) == 0 {
		return nil
	}

	parts := make([]string, 0, len(d.Errors))
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

func (d Diagnostic) String() string {
	var prefix []string
	if d.Type != "" {
		prefix = append(prefix, "["+d.Type+"]")
	}

	if d.Path != "" {
		prefix = append(prefix, d.Path)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
