package pipeline

import "fmt"

// User-facing messages for every terminal state that is not a rendered recipe
// card. All internal failures collapse into one of these so the caller always
// receives a well-formed, localized answer and never an error value.

// msgUnavailable is the fixed answer when the vector index cannot be loaded
// or queried. Failure detail is deliberately withheld from the user.
func msgUnavailable(lang Language) string {
	if lang == LanguageKorean {
		return "죄송합니다. 레시피 데이터베이스를 불러오지 못했습니다."
	}
	return "Sorry, the recipe database is currently unavailable. Please try again later."
}

// msgNoInformation is the answer when retrieval produced no usable candidates.
func msgNoInformation(lang Language) string {
	if lang == LanguageKorean {
		return "죄송합니다. 관련된 레시피 정보를 찾을 수 없습니다."
	}
	return "Sorry, I couldn't find any relevant recipe information."
}

// msgNoMatch is the answer when the selector honestly declined to pick a
// candidate. reason is the model's own justification, surfaced verbatim.
func msgNoMatch(lang Language, reason string) string {
	if lang == LanguageKorean {
		return fmt.Sprintf("😔 요청하신 조건에 맞는 레시피를 찾지 못했습니다.\n이유: %s", reason)
	}
	return fmt.Sprintf("😔 No suitable recipe found for your request.\nReason: %s", reason)
}

// msgFailure is the generic answer for model call and parse failures. diag is
// a short failure label ("model call failed"), never a raw error chain.
func msgFailure(lang Language, diag string) string {
	if lang == LanguageKorean {
		return fmt.Sprintf("죄송합니다. 답변을 준비하는 중 문제가 발생했습니다. (%s)", diag)
	}
	return fmt.Sprintf("Sorry, something went wrong while preparing your answer. (%s)", diag)
}
