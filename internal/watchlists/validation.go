package watchlists

import "encoding/json"

const (
	maxNameLen        = 100
	maxDescriptionLen = 500
)

// FieldErrors maps a field name to its validation messages, mirroring the
// error detail shape the API returns on 400s.
type FieldErrors map[string][]string

func (fe FieldErrors) add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// Empty reports whether validation passed.
func (fe FieldErrors) Empty() bool {
	return len(fe) == 0
}

type CreateWatchlistInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

func (in CreateWatchlistInput) Validate() FieldErrors {
	fe := FieldErrors{}
	if in.Name == "" {
		fe.add("name", "Name is required")
	} else if len(in.Name) > maxNameLen {
		fe.add("name", "Name too long")
	}
	if in.Description != nil && len(*in.Description) > maxDescriptionLen {
		fe.add("description", "Description too long")
	}
	return fe
}

// UpdateWatchlistInput is a partial metadata update. Nil pointers mean
// "leave unchanged".
type UpdateWatchlistInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (in UpdateWatchlistInput) Validate() FieldErrors {
	fe := FieldErrors{}
	if in.Name != nil {
		if *in.Name == "" {
			fe.add("name", "Name is required")
		} else if len(*in.Name) > maxNameLen {
			fe.add("name", "Name too long")
		}
	}
	if in.Description != nil && len(*in.Description) > maxDescriptionLen {
		fe.add("description", "Description too long")
	}
	return fe
}

type AddTokenInput struct {
	TokenID string `json:"tokenId"`
}

func (in AddTokenInput) Validate() FieldErrors {
	fe := FieldErrors{}
	if in.TokenID == "" {
		fe.add("tokenId", "Token ID is required")
	}
	return fe
}

type AddMarketInput struct {
	MarketID string `json:"marketId"`
}

func (in AddMarketInput) Validate() FieldErrors {
	fe := FieldErrors{}
	if in.MarketID == "" {
		fe.add("marketId", "Market ID is required")
	}
	return fe
}

type RemoveItemInput struct {
	ItemID string `json:"itemId"`
}

func (in RemoveItemInput) Validate() FieldErrors {
	fe := FieldErrors{}
	if in.ItemID == "" {
		fe.add("itemId", "Item ID is required")
	}
	return fe
}

// Patch actions accepted by PATCH /api/watchlists/{id}.
const (
	ActionUpdateMetadata = "update-metadata"
	ActionAddToken       = "add-token"
	ActionAddMarket      = "add-market"
	ActionRemoveItem     = "remove-item"
)

// PatchWatchlistInput is the discriminated PATCH body. Data is decoded
// per-action once the discriminator is known.
type PatchWatchlistInput struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}
