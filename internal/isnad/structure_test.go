package isnad

import (
	"testing"

	"github.com/hyperjump/rawi/internal/arabic"
	"github.com/hyperjump/rawi/internal/models"
)

func TestAnalyzeStructure_Empty(t *testing.T) {
	got := AnalyzeStructure("")
	want := models.StructureAnalysis{}
	if got != want {
		t.Errorf("empty input: got %+v", got)
	}
}

func TestAnalyzeStructure(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		wantIsnad   bool
		wantMatn    bool
		wantFormula bool
		wantScore   int
	}{
		{
			name:      "isnad with lineage",
			in:        "حدثنا أبو بكر بن أبي شيبة حدثنا وكيع عن سفيان",
			wantIsnad: true,
			wantScore: 50, // isnad 30 + lineage 20
		},
		{
			name:        "formula with qala, short",
			in:          "قال رسول الله صلى الله عليه وسلم",
			wantFormula: true,
			wantScore:   40, // qala 15 + formula 25
		},
		{
			name:      "plain prose",
			in:        "هذا نص عادي ليس فيه اسناد",
			wantScore: 0,
		},
		{
			name:        "full hadith",
			in:          "حدثنا أبو بكر بن أبي شيبة حدثنا وكيع عن سفيان عن منصور قال قال رسول الله صلى الله عليه وسلم انما الاعمال بالنيات وانما لكل امرئ ما نوي",
			wantIsnad:   true,
			wantMatn:    true,
			wantFormula: true,
			wantScore:   100, // all five rubric hits
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnalyzeStructure(arabic.Normalize(tt.in))
			if got.HasIsnad != tt.wantIsnad {
				t.Errorf("HasIsnad = %v, want %v", got.HasIsnad, tt.wantIsnad)
			}
			if got.HasMatn != tt.wantMatn {
				t.Errorf("HasMatn = %v, want %v", got.HasMatn, tt.wantMatn)
			}
			if got.TraditionalFormula != tt.wantFormula {
				t.Errorf("TraditionalFormula = %v, want %v", got.TraditionalFormula, tt.wantFormula)
			}
			if got.Score != tt.wantScore {
				t.Errorf("Score = %d, want %d", got.Score, tt.wantScore)
			}
		})
	}
}

func TestAnalyzeStructure_ScoreBounds(t *testing.T) {
	texts := []string{
		"",
		"x",
		"حدثنا أخبرنا حدثني بن ابن قال عن قال رسول الله صلى الله عليه وسلم رضي الله عنه عليه السلام",
	}
	for _, text := range texts {
		got := AnalyzeStructure(arabic.Normalize(text))
		if got.Score < 0 || got.Score > 100 {
			t.Errorf("score out of range for %q: %d", text, got.Score)
		}
	}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name      string
		chain     int
		structure int
		want      int
	}{
		{"both zero", 0, 0, 0},
		{"chain only", 100, 0, 40},
		{"structure only", 0, 100, 60},
		{"both full", 100, 100, 100},
		{"mixed rounding", 40, 50, 46}, // 16 + 30
		{"rounds half up", 45, 55, 51}, // 18 + 33
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(
				models.ChainResult{Confidence: tt.chain},
				models.StructureAnalysis{Score: tt.structure},
			)
			if got != tt.want {
				t.Errorf("Aggregate(%d, %d) = %d, want %d", tt.chain, tt.structure, got, tt.want)
			}
		})
	}
}
