package errors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/solast"
)

func TestReporter(t *testing.T) {
	source := `contract Vault is Ownable {
    function sweep() external onlyOwner {
        payable(msg.sender).transfer(address(this).balance);
    }
}`

	reporter := NewReporter("vault.sol", source)

	err := LowLevelCallStubbed("transfer", solast.Position{Line: 3, Column: 29})
	formatted := reporter.FormatError(err)

	// Should contain warning level and code
	assert.Contains(t, formatted, "warning["+WarningLowLevelCall+"]")
	assert.Contains(t, formatted, "transfer")

	// Should contain location
	assert.Contains(t, formatted, "vault.sol:3:29")

	// Should contain the suggestion
	assert.Contains(t, formatted, "explicit coin transfer")
}

func TestMissingParentError(t *testing.T) {
	pos := solast.Position{Line: 1, Column: 19}

	// Test with a near-miss candidate
	err := MissingParent("Vault", "Ownabel", pos, []string{"Ownable", "Pausable"})
	assert.Equal(t, WarningMissingParent, err.Code)
	assert.Equal(t, Warning, err.Level)
	assert.Contains(t, err.Message, "Ownabel")
	assert.Len(t, err.Suggestions, 1)
	assert.Contains(t, err.Suggestions[0].Message, "did you mean 'Ownable'")

	// Test without similar names
	err = MissingParent("Vault", "ERC20", pos, []string{"Pausable"})
	assert.Len(t, err.Suggestions, 1)
	assert.Contains(t, err.Suggestions[0].Message, "same compilation batch")
}

func TestDelegatecallIsError(t *testing.T) {
	err := Delegatecall("delegatecall", solast.Position{Line: 4, Column: 9})
	assert.Equal(t, ErrorDelegatecall, err.Code)
	assert.True(t, err.IsError())
	assert.Contains(t, err.Message, "execution context")
}

func TestUnfoldableConstantSeverity(t *testing.T) {
	pos := solast.Position{Line: 2, Column: 5}

	warn := UnfoldableConstant("ROLE", "keccak256 is not reproducible", pos, false)
	assert.Equal(t, WarningUnfoldableConstant, warn.Code)
	assert.Equal(t, Warning, warn.Level)
	assert.False(t, warn.IsError())

	hard := UnfoldableConstant("ROLE", "keccak256 is not reproducible", pos, true)
	assert.Equal(t, ErrorUnfoldableConstant, hard.Code)
	assert.True(t, hard.IsError())
	assert.Contains(t, hard.Message, "keccak256")
}

func TestUnknownAssemblyOpSuggestions(t *testing.T) {
	pos := solast.Position{Line: 7, Column: 13}

	err := UnknownAssemblyOp("shll", pos, []string{"shl", "shr", "sar", "mload"})
	assert.Equal(t, ErrorUnknownAssemblyOp, err.Code)
	assert.NotEmpty(t, err.Suggestions)
	assert.Contains(t, err.Suggestions[0].Message, "shl")
}

func TestWarningFormatting(t *testing.T) {
	source := `uint256 fee = msg.value;`
	reporter := NewReporter("fees.sol", source)

	err := ValueOutsidePayable(solast.Position{Line: 1, Column: 15})
	formatted := reporter.FormatError(err)

	assert.Contains(t, formatted, "warning[W0006]")
	assert.Contains(t, formatted, "always zero")
	assert.Contains(t, formatted, "note:")
}

func TestErrorMarkerCreation(t *testing.T) {
	source := `let variable = value;`
	reporter := NewReporter("test.sol", source)

	marker := reporter.createMarker(5, 8, Error)

	spaces := strings.Count(marker, " ")
	assert.Equal(t, 4, spaces) // column 5 means 4 spaces before
	carets := strings.Count(marker, "^")
	assert.Equal(t, 8, carets) // 8 character length
}

func TestCodeClassification(t *testing.T) {
	assert.True(t, IsWarning(WarningEnvAccessor))
	assert.False(t, IsWarning(ErrorDelegatecall))

	assert.Equal(t, "Warning", GetErrorCategory(WarningMissingParent))
	assert.Equal(t, "Rewriting", GetErrorCategory(ErrorDelegatecall))
	assert.Equal(t, "Inline Assembly", GetErrorCategory(ErrorUnknownAssemblyOp))
	assert.Equal(t, "Module Assembly", GetErrorCategory(ErrorUnfoldableConstant))
	assert.Equal(t, "Warning", GetErrorCategory(WarningSignedType))

	assert.NotEqual(t, "Unknown error code", GetErrorDescription(ErrorContractCreation))
	assert.Equal(t, "Unknown error code", GetErrorDescription("E9999"))
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, levenshteinDistance("hello", "hello"))
	assert.Equal(t, 1, levenshteinDistance("hello", "hallo"))
	assert.Equal(t, 1, levenshteinDistance("hello", "helo"))
	assert.Equal(t, 5, levenshteinDistance("hello", ""))
	assert.Equal(t, 3, levenshteinDistance("kitten", "sitting"))
}

func TestSimilarNameFinding(t *testing.T) {
	candidates := []string{"Ownable", "Pausable", "ERC20", "AccessControl"}

	similar := findSimilarNames("Ownble", candidates)
	assert.Contains(t, similar, "Ownable")
	assert.NotContains(t, similar, "ERC20")

	similar = findSimilarNames("CompletelyDifferent", candidates)
	assert.Empty(t, similar)
}

func TestErrorLevels(t *testing.T) {
	source := `test`
	reporter := NewReporter("test.sol", source)
	pos := solast.Position{Line: 1, Column: 1}

	errorErr := TransformError{Level: Error, Message: "test error", Position: pos}
	warningErr := TransformError{Level: Warning, Message: "test warning", Position: pos}

	errorFormatted := reporter.FormatError(errorErr)
	warningFormatted := reporter.FormatError(warningErr)

	assert.Contains(t, errorFormatted, "error:")
	assert.Contains(t, warningFormatted, "warning:")
}
