package itinerary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Models do not always respect the requested value types. The lenient
// types below accept the common variations and reject the rest.

// flexText accepts a string, a number or a boolean. An object is reduced
// to its most descriptive field.
type flexText string

func (f *flexText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexText(s)
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		*f = flexText(describeObject(obj))
	case '[':
		return fmt.Errorf("expected text, got array")
	default:
		*f = flexText(b)
	}
	return nil
}

var describeKeys = []string{"activity", "description", "name", "title", "place", "text", "details"}

func describeObject(obj map[string]json.RawMessage) string {
	text := ""
	for _, key := range describeKeys {
		var s flexText
		if raw, ok := obj[key]; ok && json.Unmarshal(raw, &s) == nil && strings.TrimSpace(string(s)) != "" {
			text = strings.TrimSpace(string(s))
			break
		}
	}
	if text == "" {
		return ""
	}
	var when flexText
	if raw, ok := obj["time"]; ok && json.Unmarshal(raw, &when) == nil && strings.TrimSpace(string(when)) != "" {
		return strings.TrimSpace(string(when)) + " - " + text
	}
	return text
}

// flexTextList accepts an array of flexText or a single flexText.
type flexTextList []flexText

func (l *flexTextList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*l = nil
		return nil
	}
	if b[0] != '[' {
		var one flexText
		if err := json.Unmarshal(b, &one); err != nil {
			return err
		}
		*l = flexTextList{one}
		return nil
	}
	var many []flexText
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*l = many
	return nil
}

func (l flexTextList) strings() []string {
	out := make([]string, 0, len(l))
	for _, item := range l {
		if s := strings.TrimSpace(string(item)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// flexInt accepts a number or a numeric string. Anything else is zero.
type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case float64:
		if !math.IsInf(t, 0) && !math.IsNaN(t) {
			*n = flexInt(int(t))
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			*n = flexInt(i)
		}
	}
	return nil
}

type rawDay struct {
	Day            flexInt      `json:"day"`
	Title          flexText     `json:"title"`
	Activities     flexTextList `json:"activities"`
	Meals          flexTextList `json:"meals"`
	Transportation flexText     `json:"transportation"`
	Budget         flexText     `json:"budget"`
}

type rawWeatherInfo struct {
	Forecast               flexText     `json:"forecast"`
	PackingRecommendations flexTextList `json:"packingRecommendations"`
}

type rawItinerary struct {
	Title              flexText          `json:"title"`
	Duration           flexText          `json:"duration"`
	Overview           flexText          `json:"overview"`
	Days               []json.RawMessage `json:"days"`
	Tips               flexTextList      `json:"tips"`
	TotalEstimatedCost flexText          `json:"totalEstimatedCost"`
	WeatherInfo        *rawWeatherInfo   `json:"weatherInfo"`

	// Some responses wrap everything in {"itinerary": {...}}.
	Itinerary *rawItinerary `json:"itinerary"`
}
