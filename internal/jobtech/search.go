package jobtech

import (
	"context"
	"fmt"
	"net/url"
	"reflect"
	"strconv"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/jobcoach/internal/postings"
)

const (
	SearchPath   = "/search"
	defaultLimit = 10
)

type SearchParams struct {
	Text string `jtparam:"q"`
	// Municipalities and Regions take JobTech concept ids.
	Municipalities []string `jtparam:"municipality"`
	Regions        []string `jtparam:"region"`
	Remote         bool     `jtparam:"remote"`
	Sort           string   `jtparam:"sort"`
	PublishedAfter string   `jtparam:"published-after"`
	// Limit is the total number of postings wanted, not the page size.
	Limit int `jtparam:"-"`
}

func (c *Client) Search(ctx context.Context, params *SearchParams) (*postings.Postings, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	q := buildParams(params)
	apiURLSearch := fmt.Sprintf("%s%s", c.APIURL, SearchPath)

	items, err := c.GetItems(ctx, apiURLSearch, q, limit)
	if err != nil {
		return nil, err
	}

	var hits []*hit
	cfg := &mapstructure.DecoderConfig{
		Result:           &hits,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(items); err != nil {
		return nil, fmt.Errorf("decode hits: %w", err)
	}

	result := make([]postings.Posting, 0, len(hits))
	for _, h := range hits {
		if h == nil {
			continue
		}
		result = append(result, h.toPosting())
	}

	return postings.New(result), nil
}

func buildParams(params *SearchParams) url.Values {
	q := url.Values{}
	value := reflect.ValueOf(params).Elem()
	for _, field := range reflect.VisibleFields(value.Type()) {
		key := field.Tag.Get("jtparam")
		if key == "" || key == "-" {
			continue
		}

		fv := value.FieldByIndex(field.Index)
		switch fv.Kind() {
		case reflect.Slice:
			if v, ok := fv.Interface().([]string); ok {
				for _, item := range v {
					q.Add(key, item)
				}
			}
		case reflect.Bool:
			// false means "no filter" for boolean parameters.
			if fv.Bool() {
				q.Set(key, strconv.FormatBool(true))
			}
		default:
			s := fmt.Sprintf("%v", fv.Interface())
			if s != "" && s != "0" {
				q.Set(key, s)
			}
		}
	}

	return q
}
