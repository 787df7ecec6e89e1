package preview

import (
	"bytes"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"resume-builder/resume/model"
)

func parse(t *testing.T, doc model.Document) *goquery.Document {
	t.Helper()
	html, err := Render(doc)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	page, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return page
}

func TestRenderHasCaptureRoot(t *testing.T) {
	page := parse(t, model.Default())
	if page.Find(RootSelector).Length() != 1 {
		t.Fatalf("expected exactly one %s element", RootSelector)
	}
}

func TestRenderFollowsSectionOrder(t *testing.T) {
	doc := model.Default()
	doc.SectionsOrder = []model.SectionKey{model.SectionSkills, model.SectionExperience, model.SectionPersonalInfo}

	page := parse(t, doc)
	var got []string
	page.Find("[data-section]").Each(func(_ int, s *goquery.Selection) {
		got = append(got, s.AttrOr("data-section", ""))
	})
	want := []string{"skills", "experience", "personalInfo"}
	if len(got) != len(want) {
		t.Fatalf("expected sections %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected sections %v, got %v", want, got)
		}
	}
}

func TestRenderFormatsDates(t *testing.T) {
	page := parse(t, model.Default())
	subtitle := page.Find("[data-section=experience] .subtitle").First().Text()
	if subtitle != "Tech Solutions Inc. | January 1, 2020 - Present" {
		t.Fatalf("unexpected experience subtitle %q", subtitle)
	}
	edu := page.Find("[data-section=education] .subtitle").First().Text()
	if edu != "University of Example | December 31, 2019" {
		t.Fatalf("unexpected education subtitle %q", edu)
	}
}

func TestRenderPersonalPlaceholdersAndImage(t *testing.T) {
	doc := model.Document{
		PersonalInfo: model.PersonalInfo{Phone: "555", ProfileImage: "data:image/png;base64,AAAA"},
	}
	page := parse(t, doc)

	if name := page.Find("h1").Text(); name != namePlaceholder {
		t.Fatalf("expected name placeholder, got %q", name)
	}
	if contact := page.Find(".contact").Text(); contact != emailPlaceholder+" | 555" {
		t.Fatalf("unexpected contact line %q", contact)
	}
	if src := page.Find("header img").AttrOr("src", ""); src != "data:image/png;base64,AAAA" {
		t.Fatalf("expected profile image src, got %q", src)
	}
}

func TestRenderEscapesContent(t *testing.T) {
	doc := model.Document{Skills: []string{"<script>alert(1)</script>"}}
	html, err := Render(doc)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if bytes.Contains(html, []byte("<script>alert")) {
		t.Fatalf("expected skill text to be escaped")
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"2020-01-15", "January 15, 2020"},
		{"Present", "Present"},
		{"", ""},
		{"Spring 2019", "Spring 2019"},
	}
	for _, tt := range tests {
		if got := FormatDate(tt.in); got != tt.want {
			t.Fatalf("FormatDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
