package handler

import (
	"context"

	"habitpet/internal/app/api"
	"habitpet/internal/pkg/logx"
)

// assetURL resolves an image key. Resolution failures leave the field empty so
// a storage outage never fails the whole response.
func (d *AppDeps) assetURL(ctx context.Context, key string) string {
	if d.Assets == nil || key == "" {
		return key
	}
	u, err := d.Assets.URL(ctx, key)
	if err != nil {
		logx.Warn("asset url resolution failed", "key", key, "error", err.Error())
		return ""
	}
	return u
}

func (d *AppDeps) characterView(ctx context.Context, c api.Character) api.Character {
	c.ImageURL = d.assetURL(ctx, c.ImageURL)
	return c
}

func (d *AppDeps) characterViews(ctx context.Context, list []api.Character) []api.Character {
	for i := range list {
		list[i] = d.characterView(ctx, list[i])
	}
	return list
}

func (d *AppDeps) userCharacterView(ctx context.Context, uc api.UserCharacter) api.UserCharacter {
	if uc.Character != nil {
		c := d.characterView(ctx, *uc.Character)
		uc.Character = &c
	}
	return uc
}

func (d *AppDeps) userCharacterViews(ctx context.Context, list []api.UserCharacter) []api.UserCharacter {
	for i := range list {
		list[i] = d.userCharacterView(ctx, list[i])
	}
	return list
}

func (d *AppDeps) roomItemViews(ctx context.Context, list []api.RoomItem) []api.RoomItem {
	for i := range list {
		list[i].ImageURL = d.assetURL(ctx, list[i].ImageURL)
	}
	return list
}

func (d *AppDeps) userItemViews(ctx context.Context, list []api.UserItem) []api.UserItem {
	for i := range list {
		list[i].ImageURL = d.assetURL(ctx, list[i].ImageURL)
	}
	return list
}
