package langdetect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"empty", "", "English"},
		{"ascii", "Write a short story about a lighthouse keeper.", "English"},
		{"german eszett", "Schreibe eine Geschichte über die Straße.", "German"},
		{"german wins over french", "café und Straße", "German"},
		{"french", "Écris un poème sur la mer, s'il te plaît.", "French"},
		{"spanish inverted question", "¿Puedes ayudarme?", "Spanish"},
		{"spanish tilde", "Escribe un poema para mañana", "Spanish"},
		{"italian", "Però non è così", "French"},
		{"italian grave only", "Così però", "Italian"},
		{"polish", "Napisz wiersz o łodzi", "Polish"},
		{"chinese", "写一首关于大海的诗", "Chinese"},
		{"japanese kana", "こんにちは", "Japanese"},
		{"kanji and kana resolve to chinese", "海についての詩を書いて", "Chinese"},
		{"korean", "바다에 대한 시를 써 주세요", "Korean"},
		{"russian", "Напиши стихотворение о море", "Russian"},
		{"decomposed umlaut", "u\u0308ber", "German"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.text))
		})
	}
}
