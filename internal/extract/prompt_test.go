package extract

import (
	"strings"
	"testing"

	"github.com/ppiankov/swimcal/internal/model"
)

func promptConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Year = 2026
	return cfg
}

func TestBuildSystemPrompt_IncludesLocationTable(t *testing.T) {
	prompt := BuildSystemPrompt(promptConfig())

	for _, want := range []string{
		"- Regis: Regis College Athletic Facility",
		"- Brandeis: Gosman Sports and Convocation Center",
		"- Wightman: Wightman Tennis Center",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing location line %q", want)
		}
	}
}

func TestBuildSystemPrompt_InjectsYearAndTitle(t *testing.T) {
	cfg := promptConfig()
	cfg.Year = 2027
	cfg.DefaultEventTitle = "Team Swim"

	prompt := BuildSystemPrompt(cfg)

	if !strings.Contains(prompt, "Assume year is 2027") {
		t.Error("prompt missing the configured year")
	}
	if !strings.Contains(prompt, `"summary": "Team Swim"`) {
		t.Error("prompt missing the configured title in the output example")
	}
	if !strings.Contains(prompt, "2027-01-29T18:00:00") {
		t.Error("example timestamps not using the configured year")
	}
}

func TestBuildSystemPrompt_CoreRulesPresent(t *testing.T) {
	prompt := BuildSystemPrompt(promptConfig())

	for _, want := range []string{
		"下水",
		"陆上拉伸",
		"ADD 30 MINUTES",
		"休息",
		"闭馆",
		"original_text",
		"is_ambiguous",
		"ISO 8601",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing rule text %q", want)
		}
	}
}

func TestBuildSystemPrompt_EmptyLocations(t *testing.T) {
	cfg := promptConfig()
	cfg.Locations = nil

	prompt := BuildSystemPrompt(cfg)
	if !strings.Contains(prompt, "(no known locations configured)") {
		t.Error("prompt missing the empty location placeholder")
	}
}
