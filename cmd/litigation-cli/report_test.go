package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"litigation_dashboard_go/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReport_Table(t *testing.T) {
	var out bytes.Buffer
	err := writeReport(&out, []services.RankingItem{
		{Name: "Des. Ana Souza", ContextLabel: "1ª Turma - TRT 1", TotalDecisions: 4, PercentFavorable: 75},
		{Name: "Des. Bruno Lima", ContextLabel: "2ª Turma - TRT 1", TotalDecisions: 2, PercentFavorable: 50},
	}, false)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "#"))
	assert.Contains(t, lines[1], "Des. Ana Souza")
	assert.Contains(t, lines[1], "75%")
	assert.Contains(t, lines[2], "50%")
}

func TestWriteReport_Timeline(t *testing.T) {
	var out bytes.Buffer
	err := writeReport(&out, []services.TimelinePoint{{Month: 3, Year: 2024, TotalDecisions: 2, PercentFavorable: 50, PercentUnfavorable: 50}}, false)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "2024-03")
}

func TestWriteReport_JSON(t *testing.T) {
	var out bytes.Buffer
	err := writeReport(&out, []services.CompanyStats{{Company: "Acme", TotalDecisions: 3, Favorable: 2}}, true)
	require.NoError(t, err)

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "Acme", decoded[0]["empresa"])
}

func TestWriteReport_Unsupported(t *testing.T) {
	assert.Error(t, writeReport(&bytes.Buffer{}, "nope", false))
}

func TestReportOptions_RankingOptions(t *testing.T) {
	all := reportOptions{limit: 0, minDecisions: 3}.rankingOptions()
	assert.True(t, all.All)
	assert.Equal(t, 3, all.MinDecisions)

	top := reportOptions{limit: 10}.rankingOptions()
	assert.False(t, top.All)
	assert.Equal(t, 10, top.Limit)
}
