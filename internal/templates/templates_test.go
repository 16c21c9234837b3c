package templates

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_Missing(t *testing.T) {
	_, err := Get("nope.tmpl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "template nope.tmpl not found")
}

func TestExecute_Declaration(t *testing.T) {
	var buf bytes.Buffer
	data := struct {
		DataSymbol string
		SizeSymbol string
	}{"EMBEDDED_X_DATA", "EMBEDDED_X_SIZE"}

	require.NoError(t, Execute(&buf, "declaration.h.tmpl", data))
	assert.Equal(t, "extern const char EMBEDDED_X_DATA[];\nextern unsigned long EMBEDDED_X_SIZE;\n", buf.String())
}

func TestExecute_DefinitionParts(t *testing.T) {
	var head, tail bytes.Buffer

	require.NoError(t, Execute(&head, "definition_head.c.tmpl", struct {
		DeclarationBase string
		DataSymbol      string
	}{"x.h", "EMBEDDED_X_DATA"}))
	assert.Equal(t, "#include \"x.h\"\n\nconst char EMBEDDED_X_DATA[] = {", head.String())

	require.NoError(t, Execute(&tail, "definition_tail.c.tmpl", struct {
		SizeSymbol string
		Size       uint64
	}{"EMBEDDED_X_SIZE", 42}))
	assert.Equal(t, "\n0,\n};\n\nunsigned long EMBEDDED_X_SIZE = 42;\n", tail.String())
}

func TestExecute_MissingField(t *testing.T) {
	var buf bytes.Buffer
	err := Execute(&buf, "declaration.h.tmpl", map[string]string{"DataSymbol": "A"})
	assert.Error(t, err)
}
