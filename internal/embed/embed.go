// Package embed converts a binary file into a C definition/declaration
// pair exposing the file's bytes and length as linkable symbols.
package embed

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xll-gen/embedder/internal/templates"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// SymbolPrefix is prepended to every generated symbol name.
	SymbolPrefix = "EMBEDDED_"

	// ChunkSize is the number of input bytes emitted per output line.
	ChunkSize = 16

	// NumArgs is the number of positional arguments the embedder takes.
	NumArgs = 4
)

var (
	// ErrArgCount is returned when the positional argument count is not NumArgs.
	ErrArgCount = errors.New("expected exactly 4 arguments: <name> <input-file> <output-c-file> <output-h-file>")
	// ErrQuoteInName is returned when the symbolic name contains a double quote.
	ErrQuoteInName = errors.New(`name must not contain '"'`)
)

// Options contains the parameters of a single embedding run.
type Options struct {
	// Name is the symbolic name the identifier is derived from.
	Name string
	// Input is the path of the file to embed.
	Input string
	// DefinitionPath is the output path of the C definition file.
	DefinitionPath string
	// DeclarationPath is the output path of the C declaration (header) file.
	DeclarationPath string
}

// Validate checks the positional arguments (program name excluded).
// It never touches the filesystem.
func Validate(args []string) error {
	if len(args) != NumArgs {
		return fmt.Errorf("%w, got %d", ErrArgCount, len(args))
	}
	if strings.Contains(args[0], `"`) {
		return ErrQuoteInName
	}
	return nil
}

// DeriveIdentifier replaces '.' and '-' with '_' and upper-cases the result
// using full Unicode case mapping ("ß" becomes "SS").
func DeriveIdentifier(name string) string {
	r := strings.NewReplacer(".", "_", "-", "_")
	return cases.Upper(language.Und).String(r.Replace(name))
}

// DataSymbol returns the name of the data array symbol for ident.
func DataSymbol(ident string) string {
	return SymbolPrefix + ident + "_DATA"
}

// SizeSymbol returns the name of the size symbol for ident.
func SizeSymbol(ident string) string {
	return SymbolPrefix + ident + "_SIZE"
}

// EncodeByte maps a byte onto its signed 8-bit literal value.
func EncodeByte(b byte) int {
	v := int(b)
	if v >= 128 {
		v -= 256
	}
	return v
}

// DecodeLiteral is the inverse of EncodeByte for literals in [-128, 127].
func DecodeLiteral(v int) byte {
	if v < 0 {
		v += 256
	}
	return byte(v)
}

// Encode reads r to EOF and returns the emitted literal sequence, including
// the trailing zero sentinel, together with the number of bytes read.
func Encode(r io.Reader) ([]int, uint64, error) {
	var literals []int
	size, err := forEachChunk(r, func(chunk []byte) error {
		for _, b := range chunk {
			literals = append(literals, EncodeByte(b))
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return append(literals, 0), size, nil
}

// forEachChunk calls fn with successive chunks of at most ChunkSize bytes.
// Only the final chunk can be short, regardless of how r splits its reads.
func forEachChunk(r io.Reader, fn func(chunk []byte) error) (uint64, error) {
	var size uint64
	buf := make([]byte, ChunkSize)
	for {
		n, err := io.ReadFull(r, buf)
		if n > 0 {
			size += uint64(n)
			if ferr := fn(buf[:n]); ferr != nil {
				return size, ferr
			}
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return size, nil
		}
		if err != nil {
			return size, err
		}
	}
}

// WriteDefinition streams src into w as the definition artifact for ident.
// declarationPath is referenced by its base name only. It returns the
// number of bytes embedded.
func WriteDefinition(w io.Writer, ident string, src io.Reader, declarationPath string) (uint64, error) {
	bw := bufio.NewWriter(w)

	head := struct {
		DeclarationBase string
		DataSymbol      string
	}{
		DeclarationBase: filepath.Base(declarationPath),
		DataSymbol:      DataSymbol(ident),
	}
	if err := templates.Execute(bw, "definition_head.c.tmpl", head); err != nil {
		return 0, err
	}

	var werr error
	line := make([]byte, 0, ChunkSize*5+1)
	size, err := forEachChunk(src, func(chunk []byte) error {
		line = append(line[:0], '\n')
		for _, b := range chunk {
			line = strconv.AppendInt(line, int64(EncodeByte(b)), 10)
			line = append(line, ',')
		}
		if _, werr = bw.Write(line); werr != nil {
			return werr
		}
		return nil
	})
	if werr != nil {
		return size, werr
	}
	if err != nil {
		return size, fmt.Errorf("failed to read input: %w", err)
	}

	tail := struct {
		SizeSymbol string
		Size       uint64
	}{
		SizeSymbol: SizeSymbol(ident),
		Size:       size,
	}
	if err := templates.Execute(bw, "definition_tail.c.tmpl", tail); err != nil {
		return size, err
	}
	return size, bw.Flush()
}

// WriteDeclaration writes the declaration artifact for ident to w.
func WriteDeclaration(w io.Writer, ident string) error {
	data := struct {
		DataSymbol string
		SizeSymbol string
	}{
		DataSymbol: DataSymbol(ident),
		SizeSymbol: SizeSymbol(ident),
	}
	return templates.Execute(w, "declaration.h.tmpl", data)
}

// Run performs one embedding: it opens the input and both outputs, writes
// the definition and then the declaration, and releases all three files on
// every path. On error the output files must be treated as invalid.
// opts.Name is expected to have passed Validate.
func Run(opts Options) (err error) {
	ident := DeriveIdentifier(opts.Name)

	in, err := os.Open(opts.Input)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer in.Close()

	def, err := os.Create(opts.DefinitionPath)
	if err != nil {
		return fmt.Errorf("failed to create definition file: %w", err)
	}
	defer closeOutput(def, &err)

	decl, err := os.Create(opts.DeclarationPath)
	if err != nil {
		return fmt.Errorf("failed to create declaration file: %w", err)
	}
	defer closeOutput(decl, &err)

	size, err := WriteDefinition(def, ident, in, opts.DeclarationPath)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", opts.DefinitionPath, err)
	}

	if err := WriteDeclaration(decl, ident); err != nil {
		return fmt.Errorf("failed to write %s: %w", opts.DeclarationPath, err)
	}

	slog.Debug("embedded file",
		"input", opts.Input,
		"data", DataSymbol(ident),
		"size", size,
		"definition", opts.DefinitionPath,
		"declaration", opts.DeclarationPath,
	)
	return nil
}

// closeOutput closes f and reports the close error through errp unless an
// earlier error is already set.
func closeOutput(f *os.File, errp *error) {
	if cerr := f.Close(); cerr != nil && *errp == nil {
		*errp = fmt.Errorf("failed to close %s: %w", f.Name(), cerr)
	}
}
