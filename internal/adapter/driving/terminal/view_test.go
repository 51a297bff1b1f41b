package terminal

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Wyydra/meet/internal/core/domain"
	"github.com/Wyydra/meet/internal/render"
)

func testCard() *render.InvitationCard {
	return &render.InvitationCard{
		Pretext:  "I have started a meeting",
		Title:    "Google Meet",
		Subtitle: "Meeting ID: eng-town-square",
		CallName: "eng-town-square",
		Join: render.JoinControl{
			Label:  "Join Meeting",
			URL:    "https://g.co/meet/eng-town-square",
			Target: render.TargetNewWindow,
		},
	}
}

func TestCardContainsEveryField(t *testing.T) {
	t.Parallel()

	out := Card(testCard())
	for _, want := range []string{
		"I have started a meeting",
		"Google Meet",
		"Meeting ID: eng-town-square",
		"Join Meeting",
		"https://g.co/meet/eng-town-square",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("card missing %q:\n%s", want, out)
		}
	}
}

func TestNilCardPrintsNothing(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewView(&buf).PrintCard(nil)
	if buf.Len() != 0 {
		t.Fatalf("output = %q, want empty", buf.String())
	}
	if got := Card(nil); got != "" {
		t.Fatalf("Card(nil) = %q, want empty", got)
	}
}

func TestPrintConfigSortsKeys(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewView(&buf).PrintConfig(domain.FeatureConfig{"naming_scheme": "uuid", "enabled": true})

	out := buf.String()
	enabled := strings.Index(out, "enabled")
	scheme := strings.Index(out, "naming_scheme")
	if enabled < 0 || scheme < 0 || enabled > scheme {
		t.Fatalf("config output not sorted:\n%s", out)
	}
	if !strings.Contains(out, "uuid") {
		t.Fatalf("config output missing value:\n%s", out)
	}
}

func TestPrintPost(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewView(&buf).PrintPost(domain.Message{AuthorID: "u-2", Content: "hello", CreatedAt: time.Now()})
	if !strings.Contains(buf.String(), "u-2: hello") {
		t.Fatalf("output = %q", buf.String())
	}
}
