package pipeline

// Language is the target answer language detected from the question.
type Language string

const (
	// LanguageKorean is selected when the question contains Hangul.
	LanguageKorean Language = "Korean"
	// LanguageEnglish is the default target language.
	LanguageEnglish Language = "English"
)

// Hangul syllables block (가–힣). Jamo-only input is treated as English;
// any composed syllable is enough to classify the question as Korean.
const (
	hangulFirst = '가'
	hangulLast  = '힣'
)

// DetectLanguage returns Korean if text contains at least one Hangul
// syllable, English otherwise.
func DetectLanguage(text string) Language {
	for _, r := range text {
		if r >= hangulFirst && r <= hangulLast {
			return LanguageKorean
		}
	}
	return LanguageEnglish
}
