package catalog

import (
	"github.com/example/market/pkg/config"
	"github.com/example/market/pkg/idgen"
	"github.com/example/market/pkg/models"
)

var defaultCategories = []config.CategoryConfig{
	{Code: "sut-kahvalti", Name: "Süt & Kahvaltılık", MinPrice: 25, MaxPrice: 120},
	{Code: "et-tavuk", Name: "Et & Tavuk", MinPrice: 160, MaxPrice: 480},
	{Code: "sebze", Name: "Sebze", MinPrice: 12, MaxPrice: 55},
	{Code: "meyve", Name: "Meyve", MinPrice: 15, MaxPrice: 75},
	{Code: "kuruyemis", Name: "Kuruyemiş", MinPrice: 60, MaxPrice: 210},
	{Code: "icecek", Name: "İçecek", MinPrice: 9, MaxPrice: 45},
	{Code: "temizlik", Name: "Temizlik", MinPrice: 35, MaxPrice: 190},
	{Code: "kisisel-bakim", Name: "Kişisel Bakım", MinPrice: 25, MaxPrice: 280},
	{Code: "makarna-bakliyat", Name: "Makarna & Bakliyat", MinPrice: 15, MaxPrice: 65},
	{Code: "un-seker-yag", Name: "Un Şeker Yağ", MinPrice: 30, MaxPrice: 210},
	{Code: "dondurulmus", Name: "Dondurulmuş", MinPrice: 30, MaxPrice: 120},
	{Code: "evcil-hayvan", Name: "Evcil Hayvan", MinPrice: 40, MaxPrice: 240},
	{Code: "bebek", Name: "Bebek", MinPrice: 50, MaxPrice: 360},
	{Code: "konsantre", Name: "Konserve & Sos", MinPrice: 18, MaxPrice: 95},
	{Code: "hazir-gida", Name: "Hazır Gıda", MinPrice: 22, MaxPrice: 110},
	{Code: "kahve-cay", Name: "Kahve & Çay", MinPrice: 25, MaxPrice: 250},
	{Code: "atistirmalik", Name: "Atıştırmalık", MinPrice: 12, MaxPrice: 80},
	{Code: "gurme", Name: "Gurme & Şarküteri", MinPrice: 65, MaxPrice: 320},
	{Code: "kagit-urunleri", Name: "Kağıt Ürünleri", MinPrice: 25, MaxPrice: 140},
	{Code: "kisisel-saglik", Name: "Vitamin & Sağlık", MinPrice: 60, MaxPrice: 380},
}

var brands = []string{"Migros", "M Life", "Dimes", "Pınar", "Sütaş", "Eti", "Ülker", "Torku", "Tat", "Sana", "Uno", "Sırma"}

var units = []string{"adet", "kg", "lt", "paket", "kutu", "şişe"}

// Categories without an entry use a picsum placeholder seeded by product id.
var categoryImages = map[string][]string{
	"sut-kahvalti": {
		"https://images.unsplash.com/photo-1580915411954-282cb1c9c450",
		"https://images.unsplash.com/photo-1625944527940-ef7fc9f45ed7",
	},
	"et-tavuk": {
		"https://images.unsplash.com/photo-1553163147-622ab57be1c7",
		"https://images.unsplash.com/photo-1604908176997-1251882baab4",
	},
	"sebze":     {"https://images.unsplash.com/photo-1540420773420-3366772f4999"},
	"meyve":     {"https://images.unsplash.com/photo-1517260739337-6799d239ce83"},
	"kuruyemis": {"https://images.unsplash.com/photo-1513635269975-59663e0ac1ad"},
}

// DefaultCategories returns the built-in category list.
func DefaultCategories() []config.CategoryConfig {
	out := make([]config.CategoryConfig, len(defaultCategories))
	copy(out, defaultCategories)
	return out
}

// toCategories assigns CAT-<n> ids in list order.
func toCategories(in []config.CategoryConfig) []models.Category {
	out := make([]models.Category, len(in))
	for i, c := range in {
		out[i] = models.Category{
			ID:       idgen.Format("CAT", uint64(i+1)),
			Code:     c.Code,
			Name:     c.Name,
			MinPrice: c.MinPrice,
			MaxPrice: c.MaxPrice,
		}
	}
	return out
}
