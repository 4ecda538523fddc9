package dto

import "fxsignal_backend/internal/feature/signals/domain/entity"

type MenuStatusItem struct {
	Name           string `json:"name"`
	TradeAvailable bool   `json:"trade_available"`
}

// MenuStatusResponse は銘柄コードをキーにした取引可否の一覧です。
type MenuStatusResponse map[string]MenuStatusItem

func FromMenuItems(items []entity.MenuItem) MenuStatusResponse {
	out := make(MenuStatusResponse, len(items))
	for _, it := range items {
		out[it.Instrument] = MenuStatusItem{Name: it.Name, TradeAvailable: it.TradeAvailable}
	}
	return out
}
