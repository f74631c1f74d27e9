package backend

import "habitpet/internal/app/api"

// Catalog is the shop content shared by all accounts. ImageURL fields hold
// asset keys; the handlers turn them into URLs.
type Catalog struct {
	Characters []api.Character
	Items      []api.RoomItem
}

// DefaultCatalog is the content served by the development server.
func DefaultCatalog() Catalog {
	return Catalog{
		Characters: []api.Character{
			{ID: 1, Name: "Mochi", Description: "A sleepy cat who loves routines.", Rarity: api.RarityCommon, Price: 0, ImageURL: "characters/mochi.png"},
			{ID: 2, Name: "Pip", Description: "A hamster that never skips a workout.", Rarity: api.RarityCommon, Price: 50, ImageURL: "characters/pip.png"},
			{ID: 3, Name: "Luna", Description: "An owl who keeps a tidy journal.", Rarity: api.RarityRare, Price: 150, ImageURL: "characters/luna.png"},
			{ID: 4, Name: "Blaze", Description: "A fox with boundless energy.", Rarity: api.RarityEpic, Price: 400, ImageURL: "characters/blaze.png"},
			{ID: 5, Name: "Aurora", Description: "A dragon said to reward the disciplined.", Rarity: api.RarityLegendary, Price: 1000, ImageURL: "characters/aurora.png"},
		},
		Items: []api.RoomItem{
			{ID: 1, Name: "Wooden Bed", Category: api.CategoryFurniture, Price: 40, ImageURL: "items/bed.png", Width: 120, Height: 80},
			{ID: 2, Name: "Bookshelf", Category: api.CategoryFurniture, Price: 60, ImageURL: "items/bookshelf.png", Width: 80, Height: 120},
			{ID: 3, Name: "Slide", Category: api.CategoryPlayground, Price: 90, ImageURL: "items/slide.png", Width: 140, Height: 100},
			{ID: 4, Name: "Potted Plant", Category: api.CategoryDecoration, Price: 20, ImageURL: "items/plant.png", Width: 40, Height: 60},
			{ID: 5, Name: "Starry Wallpaper", Category: api.CategoryBackground, Price: 120, ImageURL: "items/starry.png", Width: 0, Height: 0},
			{ID: 6, Name: "Ball", Category: api.CategoryProp, Price: 10, ImageURL: "items/ball.png", Width: 30, Height: 30},
		},
	}
}
