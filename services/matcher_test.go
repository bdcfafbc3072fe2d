package services

import (
	"testing"

	"litigation_dashboard_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFoldName(t *testing.T) {
	assert.Equal(t, "joao silva", FoldName("  João   SILVA "))
	assert.Equal(t, "conceicao", FoldName("Conceição"))
	assert.Equal(t, "", FoldName("   "))
}

func TestContainmentMatcher(t *testing.T) {
	m := ContainmentMatcher{}

	tests := []struct {
		name     string
		incoming string
		existing string
		want     bool
	}{
		{"same name", "Maria Souza", "Maria Souza", true},
		{"title and middle name on existing", "João Silva", "Dr. João Silva Santos", true},
		{"title and middle name on incoming", "Dr. João Silva Santos", "João Silva", true},
		{"accents ignored", "Joao Silva", "JOÃO SILVA", true},
		{"different people", "Maria Souza", "Ana Ribeiro", false},
		{"empty incoming", "", "Maria Souza", false},
		{"empty existing", "Maria Souza", " ", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Matches(tt.incoming, tt.existing))
		})
	}
}

func TestExactMatcher(t *testing.T) {
	m := ExactMatcher{}
	assert.True(t, m.Matches("joão silva", "João  Silva"))
	assert.False(t, m.Matches("João Silva", "Dr. João Silva Santos"))
	assert.False(t, m.Matches("", ""))
}

func TestFindAdjudicator(t *testing.T) {
	candidates := []models.Adjudicator{
		{ID: "a1", Name: "Dr. João Silva Santos"},
		{ID: "a2", Name: "João Silva Neto"},
		{ID: "a3", Name: "Maria Souza"},
	}

	// Both a1 and a2 contain "joão silva": the first in creation order wins
	match := FindAdjudicator(ContainmentMatcher{}, "João Silva", candidates)
	require.NotNil(t, match)
	assert.Equal(t, "a1", match.ID)

	assert.Nil(t, FindAdjudicator(ContainmentMatcher{}, "Carlos Lima", candidates))
	assert.Nil(t, FindAdjudicator(ExactMatcher{}, "João Silva", candidates))
}
