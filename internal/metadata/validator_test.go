package metadata_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/megayours/megadata-studio/internal/domain"
	"github.com/megayours/megadata-studio/internal/metadata"
)

func validItem(tokenID string) domain.Item {
	return domain.Item{
		Collection: "local_1_abc",
		TokenID:    tokenID,
		Properties: map[string]any{
			"erc721": map[string]any{
				"name":        "Demo #" + tokenID,
				"description": "A demo token",
				"image":       "ipfs://QmDemo/" + tokenID,
			},
		},
	}
}

func TestValidateItem(t *testing.T) {
	tests := []struct {
		name       string
		properties map[string]any
		expected   []string
	}{
		{
			name: "valid item",
			properties: map[string]any{
				"erc721": map[string]any{
					"name":        "Demo #0",
					"description": "desc",
					"image":       "ipfs://Qm/0",
				},
			},
			expected: nil,
		},
		{
			name:       "missing erc721 block",
			properties: map[string]any{},
			expected:   []string{"token 0: missing erc721 metadata"},
		},
		{
			name: "empty required fields",
			properties: map[string]any{
				"erc721": map[string]any{
					"name":        "",
					"description": "desc",
					"image":       "ipfs://Qm/0",
				},
			},
			expected: []string{"token 0: erc721.name is required"},
		},
		{
			name: "non-string required field",
			properties: map[string]any{
				"erc721": map[string]any{
					"name":        42,
					"description": "desc",
					"image":       "ipfs://Qm/0",
				},
			},
			expected: []string{"token 0: erc721.name is required"},
		},
		{
			name: "all required fields absent",
			properties: map[string]any{
				"erc721": map[string]any{},
			},
			expected: []string{
				"token 0: erc721.name is required",
				"token 0: erc721.description is required",
				"token 0: erc721.image is required",
			},
		},
		{
			name: "non-string external_url",
			properties: map[string]any{
				"erc721": map[string]any{
					"name":         "Demo #0",
					"description":  "desc",
					"image":        "ipfs://Qm/0",
					"external_url": 7,
				},
			},
			expected: []string{"token 0: erc721.external_url must be a string"},
		},
		{
			name: "attributes not a list",
			properties: map[string]any{
				"erc721": map[string]any{
					"name":        "Demo #0",
					"description": "desc",
					"image":       "ipfs://Qm/0",
					"attributes":  "rare",
				},
			},
			expected: []string{"token 0: erc721.attributes must be a list"},
		},
		{
			name: "attribute missing trait_type and value",
			properties: map[string]any{
				"erc721": map[string]any{
					"name":        "Demo #0",
					"description": "desc",
					"image":       "ipfs://Qm/0",
					"attributes": []any{
						map[string]any{"trait_type": "Background", "value": "Blue"},
						map[string]any{"trait_type": "Eyes"},
						"not an object",
					},
				},
			},
			expected: []string{
				"token 0: attribute 1 missing value",
				"token 0: attribute 2 must be an object",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := domain.Item{TokenID: "0", Properties: tt.properties}
			assert.Equal(t, tt.expected, metadata.ValidateItem(item))
		})
	}
}

func TestValidateBatch_Empty(t *testing.T) {
	assert.Nil(t, metadata.ValidateBatch(nil))
	assert.Nil(t, metadata.ValidateBatch([]domain.Item{}))
}

func TestValidateBatch_AllValid(t *testing.T) {
	items := make([]domain.Item, 0, 50)
	for i := 0; i < 50; i++ {
		items = append(items, validItem(fmt.Sprintf("%d", i)))
	}
	assert.Nil(t, metadata.ValidateBatch(items))
}

func TestValidateBatch_AggregatesSortedByToken(t *testing.T) {
	bad := func(tokenID string) domain.Item {
		return domain.Item{TokenID: tokenID, Properties: map[string]any{}}
	}

	problems := metadata.ValidateBatch([]domain.Item{
		validItem("1"),
		bad("c"),
		bad("a"),
		validItem("2"),
		bad("b"),
	})

	assert.Equal(t, []string{
		"token a: missing erc721 metadata",
		"token b: missing erc721 metadata",
		"token c: missing erc721 metadata",
	}, problems)
}
