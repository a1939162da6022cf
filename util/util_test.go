package util

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "trigger", "triggers"), ShouldEqual, "1 trigger")
		So(Quantify(2, "trigger", "triggers"), ShouldEqual, "2 triggers")
		So(Quantify(0, "trigger", "triggers"), ShouldEqual, "0 triggers")
	})
}

func TestClamp(t *testing.T) {
	Convey("Clamp", t, func() {
		So(Clamp(1.5, 0, 1), ShouldEqual, 1.0)
		So(Clamp(-0.1, 0, 1), ShouldEqual, 0.0)
		So(Clamp(0.3, 0, 1), ShouldEqual, 0.3)
		So(Clamp(-time.Second, 0, time.Minute), ShouldEqual, time.Duration(0))
	})
}
