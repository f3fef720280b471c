package encode

import "testing"

func TestTables_MunicipalityRegionsExist(t *testing.T) {
	t.Parallel()

	for name, info := range municipalities {
		if _, ok := regionCodes[info.region]; !ok {
			t.Errorf("municipality %q is bound to unknown region %q", name, info.region)
		}
	}
}

func TestTables_MunicipalityCodesAreUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[float64]string)
	for name, info := range municipalities {
		if other, dup := seen[info.code]; dup {
			t.Errorf("municipalities %q and %q share code %v", name, other, info.code)
		}
		seen[info.code] = name
	}
	if len(municipalities) != 11 {
		t.Errorf("expected 11 municipalities, got %d", len(municipalities))
	}
}

func TestTables_EveryMunicipalityHasIncome(t *testing.T) {
	t.Parallel()

	for name := range municipalities {
		if _, ok := municipalityIncome[name]; !ok {
			t.Errorf("municipality %q has no income entry", name)
		}
	}
}

func TestMunicipalitiesIn(t *testing.T) {
	t.Parallel()

	cases := []struct {
		region string
		want   []string
	}{
		{"Flanders", []string{"Antwerpen", "Limburg", "Oost-Vlaanderen", "Vlaams-Brabant", "West-Vlaanderen"}},
		{"Brussel", []string{"Brussel"}},
		{"Wallonia", []string{"Henegouwen", "Luik", "Luxemburg", "Namen", "Waals-Brabant"}},
		{"Atlantis", nil},
	}

	for _, tc := range cases {
		got := MunicipalitiesIn(tc.region)
		if len(got) != len(tc.want) {
			t.Errorf("MunicipalitiesIn(%q) = %v, want %v", tc.region, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("MunicipalitiesIn(%q)[%d] = %q, want %q", tc.region, i, got[i], tc.want[i])
			}
		}
	}
}

func TestEnumerations(t *testing.T) {
	t.Parallel()

	if got := PropertyTypes(); len(got) != 2 || got[0] != "Apartment" || got[1] != "House" {
		t.Errorf("PropertyTypes() = %v", got)
	}
	if got := Regions(); len(got) != 3 || got[0] != "Brussel" || got[1] != "Flanders" || got[2] != "Wallonia" {
		t.Errorf("Regions() = %v", got)
	}
	states := States()
	if len(states) != 7 || states[0] != "Good" || states[6] != "To restore" {
		t.Errorf("States() = %v", states)
	}
}

func TestSizeCategory(t *testing.T) {
	t.Parallel()

	cases := []struct {
		area float64
		want string
	}{
		{15, "Tiny Apartment"},
		{20, "Tiny Apartment"},
		{50, "Small Apartment"},
		{100, "Medium Apartment"},
		{300, "Regular House"},
		{500, "Large House"},
		{1000, "Villa"},
		{1500, "Mansion"},
	}

	for _, tc := range cases {
		if got := SizeCategory(tc.area); got != tc.want {
			t.Errorf("SizeCategory(%v) = %q, want %q", tc.area, got, tc.want)
		}
	}
}
