package emotion

import "regexp"

// Pattern 描述一条情绪特征：匹配规则、展示用的 emoji、标签名与权重。
type Pattern struct {
	Matcher *regexp.Regexp
	Emoji   string
	Name    string
	Weight  float64
}

func newPattern(expr, emoji, name string, weight float64) Pattern {
	return Pattern{
		Matcher: regexp.MustCompile("(?i)" + expr),
		Emoji:   emoji,
		Name:    name,
		Weight:  weight,
	}
}

// catalog 在包初始化时编译一次，之后只读，可被并发读取。
// 顺序即声明顺序，名称唯一。
var catalog = []Pattern{
	newPattern(`😃|happy|joy|excited|delighted|pleased|thrilled|wonderful|fantastic|great`, "😃", "Joy", 1),
	newPattern(`😔|sad|down|unhappy|depressed|blue|gloomy|heartbroken|upset`, "😔", "Sadness", 1),
	newPattern(`💪|proud|accomplished|achieved|successful|confident|strong`, "💪", "Pride", 1),
	newPattern(`😞|guilt|regret|sorry|apologetic|remorse|mistake`, "😞", "Guilt", 1),
	newPattern(`😳|shame|embarrassed|humiliated|awkward|uncomfortable`, "😳", "Shame", 1),
	newPattern(`🌟|hope|optimistic|looking forward|positive|better future|excited about`, "🌟", "Hope", 1),
	newPattern(`😨|fear|scared|worried|anxious|nervous|concerned|afraid`, "😨", "Fear", 1),
	newPattern(`🧍|lonely|alone|isolated|disconnected|missing|solitary`, "🧍", "Loneliness", 1),
	newPattern(`❤️|love|care|affection|attachment|fond|cherish`, "❤️", "Love", 1),
	newPattern(`🙏|grateful|thankful|appreciate|blessed|fortunate`, "🙏", "Gratitude", 1),
	newPattern(`❓|curious|wonder|interested|intrigued|fascinated`, "❓", "Curiosity", 1),
	newPattern(`😡|angry|mad|furious|outraged|irritated|annoyed`, "😡", "Anger", 1),
	newPattern(`😤|frustrated|stuck|blocked|hindered|limited`, "😤", "Frustration", 1),
	newPattern(`😩|disappointed|letdown|failed|unfulfilled|unsatisfied`, "😩", "Disappointment", 1),
	newPattern(`🤝|confident|assured|certain|self-assured|capable`, "🤝", "Self-Confidence", 1),
	newPattern(`🤔|unsure|insecure|doubtful|uncertain|hesitant|confused`, "🤔", "Insecurity", 1),
	newPattern(`😌|relief|relieved|relaxed|calm|peaceful|at ease`, "😌", "Relief", 1),
	newPattern(`🔥|yearning|desire|want|need|crave|aspire`, "🔥", "Yearning", 1),
}

// Catalog 返回情绪特征表的副本。
func Catalog() []Pattern {
	return append([]Pattern(nil), catalog...)
}

// emojiFor 返回第一条同名特征的 emoji。
func emojiFor(name string) string {
	for _, p := range catalog {
		if p.Name == name {
			return p.Emoji
		}
	}
	return ""
}
