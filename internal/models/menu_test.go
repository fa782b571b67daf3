package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		input   string
		want    WeekdayCode
		wantErr bool
	}{
		{"1", Monday, false},
		{"7", Sunday, false},
		{"mon", Monday, false},
		{"Wednesday", Wednesday, false},
		{" SAT ", Saturday, false},
		{"0", "", true},
		{"8", "", true},
		{"someday", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseWeekday(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseWeekday(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseWeekday(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestWeekdayConversions(t *testing.T) {
	if Sunday.Weekday() != time.Sunday || Monday.Weekday() != time.Monday {
		t.Error("unexpected time.Weekday mapping")
	}
	// 2026-10-19 is a Monday
	monday := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	if got := WeekdayFromTime(monday); got != Monday {
		t.Errorf("WeekdayFromTime(monday) = %q", got)
	}
	if got := WeekdayFromTime(monday.AddDate(0, 0, 6)); got != Sunday {
		t.Errorf("WeekdayFromTime(sunday) = %q", got)
	}
	if Thursday.Short() != "Thu" {
		t.Errorf("Short() = %q", Thursday.Short())
	}
}

func TestMenuListDictDecode(t *testing.T) {
	body := `{"1":[{"toweekMenuPlanDetId":1,"weekdayCd":"1","recipeNm":"Curry","recipeId":12}],
	          "2":[{"toweekMenuPlanDetId":2,"weekdayCd":"2","recipeNm":null,"recipeId":null}]}`

	var dict MenuListDict
	if err := json.Unmarshal([]byte(body), &dict); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	curry, ok := dict.Find(1)
	if !ok || curry.RecipeName != "Curry" || curry.RecipeID == nil || *curry.RecipeID != 12 {
		t.Errorf("Find(1) = %+v, %v", curry, ok)
	}
	empty, ok := dict.Find(2)
	if !ok || empty.RecipeName != "" || empty.RecipeID != nil {
		t.Errorf("Find(2) = %+v, %v", empty, ok)
	}
	if _, ok := dict.Find(99); ok {
		t.Error("Find(99) should miss")
	}
}

func TestCloneDoesNotShare(t *testing.T) {
	dict := MenuListDict{Monday: {{ID: 1, RecipeName: "Curry"}}}
	clone := dict.Clone()
	clone[Monday][0].RecipeName = "Ramen"
	if dict[Monday][0].RecipeName != "Curry" {
		t.Error("Clone shares backing arrays")
	}
}

func TestBuildViews(t *testing.T) {
	views := BuildViews([]MenuEntry{{ID: 1, RecipeName: "Curry"}, {ID: 2}})
	if len(views) != 2 {
		t.Fatalf("len = %d", len(views))
	}
	for _, v := range views {
		if v.State != RowAtRest || v.State.IsEditing() || v.DisplayName != v.Entry.RecipeName {
			t.Errorf("unexpected view %+v", v)
		}
	}
	if !RowSuggestionsOpen.IsEditing() || !RowSuggestionsOpen.SuggestionsVisible() || RowEditing.SuggestionsVisible() {
		t.Error("unexpected RowState predicates")
	}
}
