// Package summary writes the narrative explaining a recommendation.
package summary

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/myrjola/fitrec/internal/body"
	"github.com/myrjola/fitrec/internal/errors"
	"github.com/myrjola/fitrec/internal/pattern"
)

// TopWorkouts is how many popular workouts the summary names.
const TopWorkouts = 3

//nolint:gochecknoglobals // goldmark instances are safe for concurrent use.
var markdown = goldmark.New()

//nolint:gochecknoglobals // read-only advice table.
var advice = map[body.BMICategory]string{
	body.CategoryUnderweight: "Anda disarankan untuk fokus pada latihan yang dapat membantu membangun massa otot " +
		"dan meningkatkan kekuatan tubuh. Kombinasikan dengan asupan kalori yang cukup.",
	body.CategoryNormal: "Anda disarankan untuk menjaga keseimbangan antara latihan kekuatan dan kardio " +
		"untuk mempertahankan kondisi tubuh yang sehat.",
	body.CategoryOverweight: "Anda disarankan untuk fokus pada latihan kardio dengan intensitas sedang hingga tinggi " +
		"dikombinasikan dengan latihan kekuatan untuk membantu menurunkan berat badan.",
	body.CategoryObese: "Anda disarankan untuk memulai dengan latihan intensitas rendah yang aman bagi sendi, " +
		"secara bertahap meningkatkan intensitas seiring peningkatan kebugaran Anda.",
}

// Input is everything the narrative mentions.
type Input struct {
	Category   body.BMICategory
	Bracket    body.AgeBracket
	Difficulty string
	// Pattern is the historical pattern of the profile's group, nil when the dataset has none.
	Pattern *pattern.Pattern
}

// Markdown composes the narrative as Markdown.
func Markdown(in Input) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Berdasarkan BMI Anda yang termasuk kategori **%s** dan kategori usia **%s**, ",
		escape(string(in.Category)), escape(string(in.Bracket)))

	if p := in.Pattern; p != nil {
		if p.HasAverage() {
			fmt.Fprintf(&sb, "rata-rata orang dengan profil seperti Anda melakukan **%.1f** jenis latihan. ", p.AvgWorkouts)
		}
		if top := p.Top(TopWorkouts); len(top) > 0 {
			strong := make([]string, 0, len(top))
			for _, nc := range top {
				strong = append(strong, "**"+escape(nc.Name)+"**")
			}
			fmt.Fprintf(&sb, "Latihan paling populer untuk profil ini adalah: %s. ", strings.Join(strong, ", "))
		}
	}

	text, ok := advice[in.Category]
	if !ok {
		text = advice[body.CategoryObese]
	}
	sb.WriteString(text)

	fmt.Fprintf(&sb, "\n\nTingkat kesulitan yang direkomendasikan: **%s**.", escape(in.Difficulty))
	return sb.String()
}

// Generate renders the narrative to HTML paragraphs.
func Generate(in Input) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(Markdown(in)), &buf); err != nil {
		return "", errors.Wrap(err, "render summary")
	}
	return strings.ReplaceAll(buf.String(), "\n", ""), nil
}

// escape backslash-escapes ASCII punctuation so that dataset values render literally.
func escape(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if r < 0x80 && strings.ContainsRune("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
