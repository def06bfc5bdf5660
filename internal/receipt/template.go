// internal/receipt/template.go
package receipt

import (
	"regexp"
	"strings"
	"time"

	"printer-service/internal/config"
	"printer-service/internal/model"
	"printer-service/pkg/driver"
)

// Units printed after quantities
const (
	UnitCubicMeter = "m³"
	UnitDong       = "đ"
)

// TimestampLayout is dd/MM/yyyy HH:mm
const TimestampLayout = "02/01/2006 15:04"

// Kind selects the driver operation a Line maps to
type Kind int

const (
	KindText Kind = iota
	KindTwoColumns
	KindThreeColumns
	KindSeparator
	KindBitmap
	KindLineFeeds
)

// Line is one step of a template. Columns hold text with {key}
// placeholders; {key|money} formats the value as an amount and {now} is
// the print time.
type Line struct {
	Kind    Kind
	Columns []string
	Align   model.Align
	Text    driver.TextStyle
	Row     driver.ColumnStyle
	Feeds   int
}

// Template is an ordered list of lines
type Template struct {
	Name  string
	Lines []Line
}

func text(s string, align model.Align, bold, double bool) Line {
	return Line{Kind: KindText, Columns: []string{s}, Text: driver.TextStyle{Align: align, Bold: bold, DoubleSize: double}}
}

func twoColumns(left, right string, style driver.ColumnStyle) Line {
	return Line{Kind: KindTwoColumns, Columns: []string{left, right}, Row: style}
}

func separator() Line {
	return Line{Kind: KindSeparator, Align: model.AlignCenter}
}

func feeds(n int) Line {
	return Line{Kind: KindLineFeeds, Feeds: n}
}

// WaterBillNotice is the water bill notice ("giấy báo tiền nước") with the
// footer taken from cfg
func WaterBillNotice(cfg config.ReceiptConfig) Template {
	rightBold := driver.ColumnStyle{RightBold: true}

	return Template{
		Name: "water_bill_notice",
		Lines: []Line{
			separator(),
			text("{tenCongTy}", model.AlignCenter, true, false),
			separator(),
			text("{tenPhieu}", model.AlignCenter, true, true),
			text("KỲ: {ky}", model.AlignCenter, true, false),
			text("{tuNgay} - {denNgay}", model.AlignCenter, false, false),
			text("DB: {mdb} - MLT: {mlt}", model.AlignLeft, true, false),
			text("KH: {khachHang}", model.AlignLeft, true, false),
			text("Điện thoại KH: {soDienThoai}", model.AlignLeft, false, false),
			text("ĐC: {diaChi}", model.AlignLeft, false, false),
			text("Giá biểu: {giaBieu} - Định mức: {dinhMuc}", model.AlignLeft, false, false),
			twoColumns("Chỉ số", "{chiSo} "+UnitCubicMeter, rightBold),
			twoColumns("Tiền nước", "{tienNuoc|money} "+UnitDong, rightBold),
			text(strings.Repeat("-", 10), model.AlignRight, false, false),
			twoColumns("Số tiền (kỳ mới)", "{tienKyMoi|money} "+UnitDong, rightBold),
			separator(),
			text("NV: {nhanVien}", model.AlignLeft, true, false),
			text("ĐT: {dienThoaiNhanVien}", model.AlignLeft, true, false),
			text("In lúc: {now}", model.AlignLeft, false, false),
			text("Sau 3 ngày làm việc, kể từ ngày ghi chỉ số nước, dữ liệu hoá đơn sẽ được cập nhật tại website:", model.AlignLeft, false, false),
			text(cfg.Website, model.AlignLeft, true, false),
			text("Quý khách vui lòng kiểm tra lại số điện thoại trên phiếu báo này và liên hệ:", model.AlignLeft, false, false),
			text(cfg.Hotline+" để cập nhật lại nếu chưa chính xác.", model.AlignLeft, false, false),
			feeds(1),
			text(cfg.PaymentLabel, model.AlignCenter, true, false),
			{Kind: KindBitmap, Columns: []string{"{maQR}"}, Align: model.AlignCenter},
			feeds(3),
		},
	}
}

var placeholder = regexp.MustCompile(`\{(\w+)(\|money)?\}`)

// expand substitutes the placeholders of s
func expand(s string, fields Fields, now time.Time) string {
	return placeholder.ReplaceAllStringFunc(s, func(m string) string {
		sub := placeholder.FindStringSubmatch(m)
		key, money := sub[1], sub[2] != ""
		if key == "now" {
			return now.Format(TimestampLayout)
		}
		v := fields.Get(key, "")
		if money {
			return FormatMoney(v)
		}
		return v
	})
}
