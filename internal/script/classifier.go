package script

import (
	"fmt"
	"path/filepath"

	"github.com/harrison/synthflow/internal/models"
)

// Recognized source file suffixes. Matching is case-sensitive.
const (
	SystemVerilogExtension = ".sv"
	VerilogExtension       = ".v"
	VHDLExtension1         = ".vhd"
	VHDLExtension2         = ".vhdl"
	BinaryExtension        = ".bin"
)

// formatBySuffix is the total map from recognized suffix to format.
// Any suffix outside this table is a classification error.
var formatBySuffix = map[string]models.SourceFormat{
	SystemVerilogExtension: models.FormatSystemVerilog,
	VerilogExtension:       models.FormatVerilog,
	VHDLExtension1:         models.FormatVHDL,
	VHDLExtension2:         models.FormatVHDL,
	BinaryExtension:        models.FormatPrecompiledBinary,
}

// UnknownFormatError reports a source file whose suffix maps to no
// recognized format. Composition fails before any tool is invoked so a
// script is never silently missing a source.
type UnknownFormatError struct {
	Path string
}

// Error implements the error interface for UnknownFormatError.
func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unrecognized source format: %s", e.Path)
}

// Classify infers the source format of path from its file-name suffix.
func Classify(path string) (models.SourceFile, error) {
	format, ok := formatBySuffix[filepath.Ext(path)]
	if !ok {
		return models.SourceFile{}, &UnknownFormatError{Path: path}
	}
	return models.SourceFile{Path: path, Format: format}, nil
}

// ReadCommand returns the tool command that loads the given source
// file, or an empty string for a precompiled binary (its content is
// assumed already present via a prior checkpoint load elsewhere in the
// flow). Unrecognized suffixes fail with an UnknownFormatError.
func ReadCommand(path string) (string, error) {
	src, err := Classify(path)
	if err != nil {
		return "", err
	}
	switch src.Format {
	case models.FormatSystemVerilog:
		return "read_verilog -sv " + src.Path, nil
	case models.FormatVerilog:
		return "read_verilog " + src.Path, nil
	case models.FormatVHDL:
		return "read_vhdl " + src.Path, nil
	case models.FormatPrecompiledBinary:
		return "", nil
	default:
		return "", &UnknownFormatError{Path: path}
	}
}
