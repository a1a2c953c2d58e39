package emotion

import (
	"sort"

	"github.com/zhouzirui/z-reflect/backend/internal/model/analysis"
	"github.com/zhouzirui/z-reflect/backend/internal/model/chat"
)

// MaxEmotions 是单次检测最多返回的情绪数量。
const MaxEmotions = 5

// Fallback 在没有检测到任何情绪时使用。
func Fallback() analysis.Emotion {
	return analysis.Emotion{Emoji: "🤔", Name: "Contemplative"}
}

// tally 按名称累计得分，并记录名称第一次出现的顺序。
type tally struct {
	scores map[string]float64
	order  []string
}

func newTally() *tally {
	return &tally{scores: make(map[string]float64)}
}

func (t *tally) add(name string, delta float64) {
	if _, seen := t.scores[name]; !seen {
		t.order = append(t.order, name)
	}
	t.scores[name] += delta
}

// ranked 返回得分大于零的名称，按得分降序；同分保持首次出现顺序。
func (t *tally) ranked() []string {
	names := make([]string, 0, len(t.order))
	for _, name := range t.order {
		if t.scores[name] > 0 {
			names = append(names, name)
		}
	}
	sort.SliceStable(names, func(i, j int) bool {
		return t.scores[names[i]] > t.scores[names[j]]
	})
	return names
}

// Detect 从用户消息中识别情绪，返回至多 MaxEmotions 个互不相同的情绪。
// 助手或其他发送者的消息不参与计分。结果可能为空，兜底由调用方负责。
func Detect(messages []chat.Message) []analysis.Emotion {
	t := newTally()
	for _, msg := range messages {
		if !msg.FromUser() {
			continue
		}
		for _, p := range catalog {
			matches := len(p.Matcher.FindAllStringIndex(msg.Content, -1))
			if matches == 0 {
				continue
			}
			t.add(p.Name, float64(matches)*p.Weight)
		}
	}

	names := t.ranked()
	if len(names) > MaxEmotions {
		names = names[:MaxEmotions]
	}

	emotions := make([]analysis.Emotion, 0, len(names))
	for _, name := range names {
		emotions = append(emotions, analysis.Emotion{Emoji: emojiFor(name), Name: name})
	}
	return emotions
}
