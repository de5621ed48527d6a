// Package export renders quizzes as printable PDF documents.
package export

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/edugen/edugen/internal/quiz"
)

const (
	thaiFamily     = "thai"
	fallbackFamily = "Helvetica"
	defaultTitle   = "แบบทดสอบ"
)

// DefaultFontPaths are tried, in order, when no font is configured.
var DefaultFontPaths = []string{
	"fonts/THSarabunNew.ttf",
	"/usr/share/fonts/truetype/tlwg/Garuda.ttf",
	"/usr/share/fonts/truetype/noto/NotoSansThai-Regular.ttf",
}

// Options control rendering.
type Options struct {
	// ShuffleChoices reorders each multiple-choice item's options. The
	// answer follows its option.
	ShuffleChoices bool

	// ShowAnswers adds an answer line, with the explanation, under each
	// question.
	ShowAnswers bool

	// FontPath is a UTF-8 TrueType font able to render Thai. When empty or
	// missing, DefaultFontPaths are tried, then Helvetica.
	FontPath string

	// Rand drives choice shuffling. Nil uses the global source.
	Rand *rand.Rand
}

type lineStyle int

const (
	styleQuestion lineStyle = iota
	styleChoice
	styleAnswer
	styleGap
)

type line struct {
	text  string
	style lineStyle
}

// layout turns items into the sequence of lines to print.
func layout(items []quiz.Item, opts Options) []line {
	var out []line
	for i, it := range items {
		if opts.ShuffleChoices && it.Kind == quiz.KindMultipleChoice {
			it = quiz.ShuffleChoices(it, opts.Rand)
		}
		out = append(out, line{fmt.Sprintf("%d) %s", i+1, it.Text), styleQuestion})
		for _, c := range choiceLines(it) {
			out = append(out, line{c, styleChoice})
		}
		if opts.ShowAnswers {
			out = append(out, line{answerLine(it), styleAnswer})
		}
		out = append(out, line{"", styleGap})
	}
	return out
}

func choiceLines(it quiz.Item) []string {
	if it.Kind == quiz.KindTrueFalse {
		return []string{"ก. จริง", "ข. เท็จ"}
	}
	out := make([]string, 0, len(it.Choices))
	for i, c := range it.Choices {
		out = append(out, quiz.Position(i).Marker()+". "+c)
	}
	return out
}

func answerLine(it quiz.Item) string {
	ans := it.AnswerLabel()
	if it.Kind == quiz.KindTrueFalse {
		if it.Truth() {
			ans = "ก. จริง"
		} else {
			ans = "ข. เท็จ"
		}
	}
	if it.Explanation != "" {
		return "เฉลย: " + ans + " - " + it.Explanation
	}
	return "เฉลย: " + ans
}

// Render writes title and items to w as an A4 PDF.
func Render(w io.Writer, title string, items []quiz.Item, opts Options) error {
	if strings.TrimSpace(title) == "" {
		title = defaultTitle
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 16, 18)
	pdf.SetAutoPageBreak(true, 16)

	family, size := fallbackFamily, 11.0
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageLabel := "Page %d"
	if path := resolveFont(opts.FontPath); path != "" {
		pdf.AddUTF8Font(thaiFamily, "", path)
		if pdf.Err() {
			return fmt.Errorf("load font %s: %w", path, pdf.Error())
		}
		family, size = thaiFamily, 16
		tr = func(s string) string { return s }
		pageLabel = "หน้า %d"
	}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(family, "", size-4)
		pdf.CellFormat(0, 8, tr(fmt.Sprintf(pageLabel, pdf.PageNo())), "", 0, "R", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont(family, "", size+2)
	pdf.MultiCell(0, (size+2)*0.5, tr(title), "", "L", false)
	pdf.Ln(3)

	lh := size * 0.45
	for _, l := range layout(items, opts) {
		switch l.style {
		case styleQuestion:
			pdf.SetFont(family, "", size)
			pdf.MultiCell(0, lh, tr(l.text), "", "L", false)
		case styleChoice:
			pdf.SetX(pdf.GetX() + 6)
			pdf.MultiCell(0, lh, tr(l.text), "", "L", false)
		case styleAnswer:
			pdf.SetTextColor(0, 90, 40)
			pdf.MultiCell(0, lh, tr(l.text), "", "L", false)
			pdf.SetTextColor(0, 0, 0)
		case styleGap:
			pdf.Ln(2)
		}
	}

	return pdf.Output(w)
}

func resolveFont(configured string) string {
	candidates := DefaultFontPaths
	if configured != "" {
		candidates = append([]string{configured}, candidates...)
	}
	for _, p := range candidates {
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p
		}
	}
	return ""
}
