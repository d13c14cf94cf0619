package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notice-guard/api/internal/notice/types"
)

func TestDefaultTablesAreValid(t *testing.T) {
	tax := Default()
	require.NotNil(t, tax)
	for _, g := range Groups {
		assert.NotEmpty(t, tax.Groups[g], "group %s", g)
	}
	require.Len(t, tax.Variants, 3)
	require.Len(t, tax.LogisticsVariants, 3)
	for i, name := range types.CanonicalRewrites {
		assert.Equal(t, name, tax.Variants[i].Name)
		assert.Equal(t, name, tax.LogisticsVariants[i].Name)
	}
}

func TestMatchIsCaseInsensitiveAndOrdered(t *testing.T) {
	tax := Default()
	assert.Equal(t, []string{"mandatory", "penalty"}, tax.Match(GroupNegative, "A PENALTY applies; attendance is Mandatory."))
	assert.Equal(t, []string{"处分", "违纪"}, tax.Match(GroupDiscipline, "对违纪行为给予处分"))
	assert.Empty(t, tax.Match(GroupDiscipline, "请到行政楼领取教材"))
}

func TestMatchSevere(t *testing.T) {
	tax := Default()
	assert.Equal(t, []string{"开除"}, tax.MatchSevere("情节严重者开除学籍"))
	assert.Empty(t, tax.MatchSevere("this looks fine"))
}

func TestReason(t *testing.T) {
	tax := Default()
	assert.NotEmpty(t, tax.Reason("处分"))
	assert.Empty(t, tax.Reason("领取"))
	assert.Empty(t, tax.Reason("not-a-term"))
}

func TestSoftenText(t *testing.T) {
	tax := Default()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"literal", "宿舍一律不得使用大功率电器", "宿舍原则上请避免使用大功率电器"},
		{"longest literal first", "违者从严处理", "违者依规处理"},
		{"regex word boundary", "Attendance is mandatory and you MUST come.", "Attendance is expected and you should come."},
		{"untouched", "请按时领取教材", "请按时领取教材"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tax.SoftenText(tt.in))
		})
	}
}

func TestReplacement(t *testing.T) {
	tax := Default()
	repl, ok := tax.Replacement("严禁")
	require.True(t, ok)
	assert.Equal(t, "请勿", repl)

	_, ok = tax.Replacement("处分")
	assert.False(t, ok)
}

const validVariants = `
variants:
  - {name: Clarify, suffix: a, discount: 1}
  - {name: Reassure, suffix: b, discount: 2}
  - {name: Actionable, suffix: c, discount: 3}
logistics_variants:
  - {name: Clarify, suffix: a, discount: 1}
  - {name: Reassure, suffix: b, discount: 2}
  - {name: Actionable, suffix: c, discount: 3}
`

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name: "minimal document",
			doc:  "groups:\n  discipline:\n    - {term: x}\n" + validVariants,
		},
		{
			name:    "soften rule with both forms",
			doc:     "soften:\n  - {literal: a, regex: b, replace: c}\n" + validVariants,
			wantErr: "exactly one of literal/regex",
		},
		{
			name:    "soften rule with neither form",
			doc:     "soften:\n  - {replace: c}\n" + validVariants,
			wantErr: "exactly one of literal/regex",
		},
		{
			name:    "bad regex",
			doc:     "soften:\n  - {regex: '(', replace: c}\n" + validVariants,
			wantErr: "soften rule 0",
		},
		{
			name: "variants out of order",
			doc: `variants:
  - {name: Reassure}
  - {name: Clarify}
  - {name: Actionable}
`,
			wantErr: "variants[0]",
		},
		{
			name:    "missing variants",
			doc:     "groups: {}\n",
			wantErr: "want 3 entries",
		},
		{
			name:    "empty term",
			doc:     "groups:\n  policy:\n    - {reason: r}\n" + validVariants,
			wantErr: "empty term",
		},
		{
			name:    "not yaml",
			doc:     "groups: [",
			wantErr: "decode taxonomy",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tax, err := Parse([]byte(tt.doc))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []string{"x"}, tax.Match(GroupDiscipline, "xyz"))
		})
	}
}
