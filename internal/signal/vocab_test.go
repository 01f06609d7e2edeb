package signal

import (
	"testing"

	"surfwatch/internal/model"
)

func TestKnownCoversVocabulary(t *testing.T) {
	if !Known(URLLoginPath) || !Known(RelTemporalChain) || !Known(ContentCardField) {
		t.Error("expected vocabulary codes to be known")
	}
	if Known("totally_made_up") {
		t.Error("expected unknown code to be rejected")
	}
}

func TestCategoryOf(t *testing.T) {
	cases := []struct {
		code model.SignalCode
		want model.ActivityLevel
	}{
		{URLPaymentPath, model.LevelTransaction},
		{ContentCardField, model.LevelTransaction},
		{URLEditorPath, model.LevelUGC},
		{ContentRichEditor, model.LevelUGC},
		{URLLoginPath, model.LevelAccount},
		{RelKnownIdP, model.LevelAccount},
	}
	for _, c := range cases {
		got, ok := CategoryOf(c.code)
		if !ok {
			t.Errorf("%s: expected known", c.code)
			continue
		}
		if got != c.want {
			t.Errorf("%s: expected %s, got %s", c.code, c.want, got)
		}
	}
}

func TestCategoryOfUnknown(t *testing.T) {
	if _, ok := CategoryOf("nope"); ok {
		t.Error("expected unknown code to report not-ok")
	}
}

func TestFilterDropsStrangers(t *testing.T) {
	valid, dropped := Filter([]model.SignalCode{
		ContentPasswordField, "evil_injected_code", URLLoginPath,
	})
	if len(valid) != 2 || valid[0] != ContentPasswordField || valid[1] != URLLoginPath {
		t.Errorf("expected two valid codes in order, got %v", valid)
	}
	if len(dropped) != 1 || dropped[0] != "evil_injected_code" {
		t.Errorf("expected one dropped code, got %v", dropped)
	}
}

func TestWeightsOnlyForStructuralCodes(t *testing.T) {
	if !IsStrong(URLOAuthParams) || !IsStrong(RelTemporalChain) {
		t.Error("expected URL and relationship codes to carry strong weight")
	}
	for _, c := range []model.SignalCode{ContentPasswordField, ContentOTPField, ContentRichEditor, ContentPaymentForm, ContentCardField} {
		if IsStrong(c) {
			t.Errorf("content code %s must not carry strong weight", c)
		}
	}
}

func TestAllMatchesVocabularySize(t *testing.T) {
	all := All()
	if len(all) != len(categories) {
		t.Errorf("expected %d codes, got %d", len(categories), len(all))
	}
	for _, c := range all {
		if !Known(c) {
			t.Errorf("All returned unknown code %s", c)
		}
	}
}
