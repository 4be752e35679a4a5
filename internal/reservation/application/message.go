package application

import (
	"fmt"
	"strings"

	"github.com/sngm3741/line-forms-services/api/internal/reservation/domain"
	storedomain "github.com/sngm3741/line-forms-services/api/internal/store/domain"
)

// BuildConfirmationMessage renders the booking summary sent back to the
// customer's LINE talk after a successful submission.
func BuildConfirmationMessage(store *storedomain.Profile, state domain.SelectionState, payload domain.Payload) string {
	var builder strings.Builder
	builder.WriteString("【予約完了】\n")
	builder.WriteString(fmt.Sprintf("店舗: %s\n", store.Name))
	builder.WriteString(fmt.Sprintf("お名前: %s\n", payload.CustomerName))
	builder.WriteString(fmt.Sprintf("電話番号: %s\n", payload.CustomerPhone))
	builder.WriteString(fmt.Sprintf("来店: %s\n", state.VisitKind.ShortLabel()))
	builder.WriteString(fmt.Sprintf("メニュー: %s (%d分・¥%d)\n", payload.Menu.Name, payload.Menu.DurationMinutes, payload.Menu.Price))
	if state.Date != nil {
		builder.WriteString(fmt.Sprintf("日時: %s %s\n", domain.FormatDateLongJa(*state.Date), payload.Time))
	}
	if payload.CustomerMessage != "" {
		builder.WriteString(fmt.Sprintf("ご要望: %s\n", payload.CustomerMessage))
	}
	builder.WriteString("\n※当日キャンセルは無いようにお願いします")
	return builder.String()
}
