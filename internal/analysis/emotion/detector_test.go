package emotion

import (
	"reflect"
	"testing"

	"github.com/zhouzirui/z-reflect/backend/internal/model/analysis"
	"github.com/zhouzirui/z-reflect/backend/internal/model/chat"
)

func userMsg(content string) chat.Message {
	return chat.Message{Sender: chat.SenderUser, Content: content}
}

func TestDetectHappyAndGrateful(t *testing.T) {
	got := Detect([]chat.Message{userMsg("I am so happy and grateful today")})
	want := []analysis.Emotion{
		{Emoji: "😃", Name: "Joy"},
		{Emoji: "🙏", Name: "Gratitude"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected emotions: got %+v want %+v", got, want)
	}
}

func TestDetectIgnoresAssistantMessages(t *testing.T) {
	got := Detect([]chat.Message{
		userMsg("ok"),
		{Sender: chat.SenderAssistant, Content: "I feel great and proud"},
	})
	if len(got) != 0 {
		t.Fatalf("expected no emotions, got %+v", got)
	}
}

func TestDetectWithoutUserMessages(t *testing.T) {
	got := Detect([]chat.Message{
		{Sender: chat.SenderAssistant, Content: "so happy, so sad, so angry"},
		{Sender: "system", Content: "thrilled"},
	})
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v", got)
	}

	if got := Detect(nil); len(got) != 0 {
		t.Fatalf("expected empty result for nil input, got %+v", got)
	}
}

func TestDetectRanksByScore(t *testing.T) {
	got := Detect([]chat.Message{userMsg("Also happy. But sad, so sad and upset.")})
	want := []analysis.Emotion{
		{Emoji: "😔", Name: "Sadness"},
		{Emoji: "😃", Name: "Joy"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected ranking: got %+v want %+v", got, want)
	}
}

func TestDetectTieKeepsFirstEncounterOrder(t *testing.T) {
	// Gratitude is declared after Joy but is seen first.
	got := Detect([]chat.Message{
		userMsg("so grateful"),
		userMsg("so happy"),
	})
	want := []analysis.Emotion{
		{Emoji: "🙏", Name: "Gratitude"},
		{Emoji: "😃", Name: "Joy"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected tie order: got %+v want %+v", got, want)
	}

	// Within one message the catalog is scanned in declaration order.
	got = Detect([]chat.Message{userMsg("grateful and happy")})
	if len(got) != 2 || got[0].Name != "Joy" || got[1].Name != "Gratitude" {
		t.Fatalf("unexpected in-message tie order: %+v", got)
	}
}

func TestDetectCountsEveryMatch(t *testing.T) {
	got := Detect([]chat.Message{
		userMsg("a little sad"),
		userMsg("happy happy joy"),
	})
	if len(got) != 2 || got[0].Name != "Joy" || got[1].Name != "Sadness" {
		t.Fatalf("expected repeated matches to outrank a single one, got %+v", got)
	}
}

func TestDetectCaseInsensitiveAndEmoji(t *testing.T) {
	got := Detect([]chat.Message{userMsg("HAPPY")})
	if len(got) != 1 || got[0].Name != "Joy" {
		t.Fatalf("expected Joy from upper-case keyword, got %+v", got)
	}

	got = Detect([]chat.Message{userMsg("🔥🔥")})
	if len(got) != 1 || got[0] != (analysis.Emotion{Emoji: "🔥", Name: "Yearning"}) {
		t.Fatalf("expected Yearning from emoji, got %+v", got)
	}
}

func TestDetectCapsAtFiveDistinct(t *testing.T) {
	got := Detect([]chat.Message{userMsg("happy sad proud sorry awkward afraid lonely")})
	if len(got) != MaxEmotions {
		t.Fatalf("expected %d emotions, got %d (%+v)", MaxEmotions, len(got), got)
	}

	wantNames := []string{"Joy", "Sadness", "Pride", "Guilt", "Shame"}
	for i, name := range wantNames {
		if got[i].Name != name {
			t.Fatalf("position %d: got %s want %s", i, got[i].Name, name)
		}
	}

	seen := make(map[string]bool)
	for _, e := range got {
		if seen[e.Name] {
			t.Fatalf("duplicate emotion %s", e.Name)
		}
		seen[e.Name] = true
	}
}

func TestDetectIsDeterministic(t *testing.T) {
	messages := []chat.Message{
		userMsg("I'm worried and anxious, but also hopeful and thankful"),
		{Sender: chat.SenderAssistant, Content: "That sounds like a lot"},
		userMsg("I feel stuck and frustrated, I want a better future"),
	}

	first := Detect(messages)
	for i := 0; i < 10; i++ {
		if next := Detect(messages); !reflect.DeepEqual(first, next) {
			t.Fatalf("run %d differs: %+v vs %+v", i, first, next)
		}
	}
}

func TestTallyAccumulatesByName(t *testing.T) {
	tl := newTally()
	tl.add("A", 1)
	tl.add("B", 2)
	tl.add("A", 2)
	tl.add("C", 0)

	got := tl.ranked()
	want := []string{"A", "B"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected ranking: got %v want %v", got, want)
	}
}

func TestCatalogNamesAreUnique(t *testing.T) {
	patterns := Catalog()
	if len(patterns) != 18 {
		t.Fatalf("expected 18 catalog entries, got %d", len(patterns))
	}

	seen := make(map[string]bool)
	for _, p := range patterns {
		if seen[p.Name] {
			t.Fatalf("duplicate catalog name %s", p.Name)
		}
		seen[p.Name] = true
		if p.Weight <= 0 {
			t.Fatalf("catalog entry %s has non-positive weight", p.Name)
		}
	}
}
