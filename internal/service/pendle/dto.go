package pendle

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"
)

type marketsResponse struct {
	Markets []marketDTO `json:"markets"`
}

type marketDTO struct {
	Name    string     `json:"name"`
	Address string     `json:"address"`
	ChainID chainID    `json:"chainId"`
	Expiry  string     `json:"expiry"`
	Details detailsDTO `json:"details"`
}

type detailsDTO struct {
	TotalTVL decimal.NullDecimal `json:"totalTvl"`
}

// chainID accepts both numeric and string chain identifiers.
type chainID string

func (c *chainID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*c = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = chainID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	if i, err := n.Int64(); err == nil {
		*c = chainID(strconv.FormatInt(i, 10))
		return nil
	}
	*c = chainID(n.String())
	return nil
}
