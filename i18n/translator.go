package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "kind" or "field").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_type":
			return "型が不正です"
		case "conversion_error":
			return "変換エラー"
		case "parse_error":
			return "解析エラー"
		case "cycle_detected":
			return "循環参照を検出しました"
		case "discriminator_missing":
			return "判別子がありません"
		case "discriminator_unknown":
			return "未知のバリアントです"
		case "union_ambiguous":
			return "バリアントを一意に特定できません"
		case "registration_duplicate":
			return "すでに登録されています"
		case "registration_unknown_kind":
			return "未知の変換キーです"
		}
	default: // "en"
		switch code {
		case "invalid_type":
			return "invalid type"
		case "conversion_error":
			return "conversion error"
		case "parse_error":
			return "parse error"
		case "cycle_detected":
			return "cycle detected"
		case "discriminator_missing":
			return "discriminator missing"
		case "discriminator_unknown":
			return "unknown variant"
		case "union_ambiguous":
			return "ambiguous variant"
		case "registration_duplicate":
			return "already registered"
		case "registration_unknown_kind":
			return "unknown transformer kind"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
