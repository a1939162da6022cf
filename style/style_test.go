package style

import (
	"testing"

	"github.com/omxconductor/omxconductor/color"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRenderers(t *testing.T) {
	Convey("Renderers keep the text", t, func() {
		for _, render := range []func(string) string{
			Fg(color.Green),
			Faint,
			Bold,
			Title,
			Tag(color.Black, color.Yellow),
		} {
			So(render("paused"), ShouldContainSubstring, "paused")
		}
	})

	Convey("Tags are padded", t, func() {
		So(len(Tag(color.Black, color.Yellow)("x")), ShouldBeGreaterThanOrEqualTo, 3)
	})
}
