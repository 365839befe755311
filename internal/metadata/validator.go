package metadata

import (
	"fmt"
	"sort"
	"sync"

	"github.com/alitto/pond/v2"

	"github.com/megayours/megadata-studio/internal/domain"
)

// requiredERC721Fields are the fields every token document must carry
var requiredERC721Fields = []string{"name", "description", "image"}

// ValidateItem checks one item's properties against the ERC-721 schema and
// returns human-readable messages for every violation. An empty result means
// the item is publishable.
func ValidateItem(item domain.Item) []string {
	var errs []string

	erc721, ok := item.Properties["erc721"].(map[string]any)
	if !ok {
		return []string{fmt.Sprintf("token %s: missing erc721 metadata", item.TokenID)}
	}

	for _, field := range requiredERC721Fields {
		v, present := erc721[field]
		s, isString := v.(string)
		if !present || !isString || s == "" {
			errs = append(errs, fmt.Sprintf("token %s: erc721.%s is required", item.TokenID, field))
		}
	}

	if v, present := erc721["external_url"]; present {
		if _, isString := v.(string); !isString {
			errs = append(errs, fmt.Sprintf("token %s: erc721.external_url must be a string", item.TokenID))
		}
	}

	if v, present := erc721["attributes"]; present {
		attrs, isList := v.([]any)
		if !isList {
			errs = append(errs, fmt.Sprintf("token %s: erc721.attributes must be a list", item.TokenID))
		} else {
			for i, a := range attrs {
				attr, isMap := a.(map[string]any)
				if !isMap {
					errs = append(errs, fmt.Sprintf("token %s: attribute %d must be an object", item.TokenID, i))
					continue
				}
				if _, ok := attr["trait_type"]; !ok {
					errs = append(errs, fmt.Sprintf("token %s: attribute %d missing trait_type", item.TokenID, i))
				}
				if _, ok := attr["value"]; !ok {
					errs = append(errs, fmt.Sprintf("token %s: attribute %d missing value", item.TokenID, i))
				}
			}
		}
	}

	return errs
}

// ValidateBatch validates every item of a publish batch and returns the
// aggregated error list, ordered by token id. Large imports fan out across a
// worker pool; the batch is rejected as a whole when any item fails.
func ValidateBatch(items []domain.Item) []string {
	if len(items) == 0 {
		return nil
	}

	pool := pond.NewPool(8)

	var mu sync.Mutex
	perToken := make(map[string][]string, len(items))

	for _, item := range items {
		item := item
		pool.Submit(func() {
			if errs := ValidateItem(item); len(errs) > 0 {
				mu.Lock()
				perToken[item.TokenID] = errs
				mu.Unlock()
			}
		})
	}
	pool.StopAndWait()

	if len(perToken) == 0 {
		return nil
	}

	tokenIDs := make([]string, 0, len(perToken))
	for id := range perToken {
		tokenIDs = append(tokenIDs, id)
	}
	sort.Strings(tokenIDs)

	var all []string
	for _, id := range tokenIDs {
		all = append(all, perToken[id]...)
	}
	return all
}
