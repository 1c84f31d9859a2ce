package diagnostic_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freezedry/diagnostic"
)

func ExampleDiagnostic_String() {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityWarning,
		Code:     diagnostic.CodeBridgeTypeNotFound,
		Message:  "no type named app_Gone",
		Type:     "app.Holder",
		Path:     "Holder.payload",
	}

	fmt.Println(d)

	// Output:
	// [app.Holder] Holder.payload: [bridge-type-not-found] no type named app_Gone
}

func TestDiagnostics(t *testing.T) {
	t.Parallel()

	var d diagnostic.Diagnostics
	require.NoError(t, d.Error())
	assert.False(t, d.HasErrors())

	d.AddInfo("note", "just so you know", "", "")
	d.AddWarning(diagnostic.CodeUnknownMetadataOption, "unknown option \"frobnicate\"", "app.User", "User.name")
	assert.False(t, d.HasErrors())
	assert.True(t, d.HasCode(diagnostic.CodeUnknownMetadataOption))
	assert.False(t, d.HasCode(diagnostic.CodeBridgeTypeNotFound))

	var other diagnostic.Diagnostics
	other.AddError("broken", "first", "", "")
	other.AddError("broken", "second", "", "a.b")

	d.Merge(&other)
	d.Merge(&d)
	d.Merge(nil)

	assert.Equal(t, 4, d.Len())
	assert.True(t, d.HasErrors())
	assert.EqualError(t, d.Error(), "[broken] first; a.b: [broken] second")
}

func TestSeverityEnum_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "info", diagnostic.SeverityInfo.String())
	assert.Equal(t, "warning", diagnostic.SeverityWarning.String())
	assert.Equal(t, "error", diagnostic.SeverityError.String())
	assert.Equal(t, "unknown", diagnostic.SeverityEnum(42).String())
}
