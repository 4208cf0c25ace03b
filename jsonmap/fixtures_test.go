package jsonmap

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	gojson "github.com/goccy/go-json"
)

type phoneNumber struct {
	Type   string `json:"type"`
	Number string `json:"number"`
}

type person struct {
	FirstName    string        `json:"firstName"`
	LastName     string        `json:"lastName"`
	Age          int           `json:"age"`
	Single       bool          `json:"single"`
	Height       float64       `json:"height"`
	PhoneNumbers []phoneNumber `json:"phoneNumbers"`
	Born         time.Time     `json:"born"`
}

type computer struct {
	Name   string `json:"name"`
	Serial string `json:"-"`
}

type pair struct {
	A int `json:"a"`
	B int `json:"b"`
}

type node struct {
	Value int   `json:"value"`
	Next  *node `json:"next"`
}

type settings struct {
	Retries int     `json:"retries" default:"3"`
	Ratio   float64 `json:"ratio" default:"1.0/4"`
	Mode    string  `json:"mode" default:"fast"`
}

type point struct{ X, Y int }

func (p point) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("[ %d, %d ]", p.X, p.Y)), nil
}

func (p *point) UnmarshalJSON(b []byte) error {
	var xy []int
	if err := gojson.Unmarshal(b, &xy); err != nil {
		return err
	}
	if len(xy) != 2 {
		return fmt.Errorf("point needs 2 coordinates, got %d", len(xy))
	}
	p.X, p.Y = xy[0], xy[1]
	return nil
}

// color keeps both JSON methods on the pointer receiver.
type color struct{ name string }

func (c *color) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(strings.ToUpper(c.name))), nil
}

func (c *color) UnmarshalJSON(b []byte) error {
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return err
	}
	c.name = strings.ToLower(s)
	return nil
}

// sku keeps both text methods on the pointer receiver.
type sku struct{ code string }

func (s *sku) MarshalText() ([]byte, error) { return []byte("sku-" + s.code), nil }

func (s *sku) UnmarshalText(b []byte) error {
	s.code = strings.TrimPrefix(string(b), "sku-")
	return nil
}

type base struct {
	Name string
	Kind string
}

type labelled struct {
	base
	Name string
}

type schedule struct {
	Code string    `json:"code" default:"42"`
	At   time.Time `json:"at" default:"2024-01-01"`
}

func chain(n int) *node {
	var head *node
	for i := n; i > 0; i-- {
		head = &node{Value: i, Next: head}
	}
	return head
}
