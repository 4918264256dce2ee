package gateway

import "github.com/example/market/pkg/models"

const (
	defaultAddressID = "EV"
	freeDelivery     = "Ücretsiz"
)

type deliverySlot struct {
	ID    string
	Label string
	Fee   float64
}

var deliverySlotList = []deliverySlot{
	{ID: "slot-today-morning", Label: "Bugün 10:00 - 12:00"},
	{ID: "slot-today-evening", Label: "Bugün 18:00 - 20:00", Fee: 19.90},
	{ID: "slot-tomorrow", Label: "Yarın 20:00 - 22:00"},
}

func newDeliverySlots(addressID, currency string) deliverySlots {
	if addressID == "" {
		addressID = defaultAddressID
	}
	slots := make([]slotView, len(deliverySlotList))
	for i, s := range deliverySlotList {
		fee := newPriceView(models.MoneyFromFloat(s.Fee, currency))
		if s.Fee == 0 {
			fee.Formatted = freeDelivery
		}
		slots[i] = slotView{ID: s.ID, Label: s.Label, Fee: fee}
	}
	return deliverySlots{Type: "delivery_slots", AddressID: addressID, Slots: slots}
}
