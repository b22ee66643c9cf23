package models

import (
	"encoding/json"
	"testing"
)

func TestDefaults_JSONRoundTrip(t *testing.T) {
	d := NewDefaults(map[string]Value{
		KeyBrick:       Number(230),
		KeyWallHeight:  Text("tall"),
		KeyBrickColour: ColorMap{"A": "red"},
	})

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"brick":230,"brick_colour":{"A":"red"},"wall_height":"tall"}`
	if string(data) != want {
		t.Fatalf("expected %s, got %s", want, data)
	}

	var back Defaults
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if n, ok := back.Number(KeyBrick); !ok || n != 230 {
		t.Errorf("brick lost: %v %v", n, ok)
	}
	if v, _ := back.Get(KeyWallHeight); v != Text("tall") {
		t.Errorf("wall_height lost: %#v", v)
	}
	if v, _ := back.Get(KeyBrickColour); v.(ColorMap)["A"] != "red" {
		t.Errorf("brick_colour lost: %#v", v)
	}
}

func TestDefaults_IsReadOnly(t *testing.T) {
	src := map[string]Value{KeyBrickColour: ColorMap{"A": "red"}}
	d := NewDefaults(src)

	src[KeyBrickColour].(ColorMap)["A"] = "blue"
	got, _ := d.Get(KeyBrickColour)
	got.(ColorMap)["B"] = "green"

	again, _ := d.Get(KeyBrickColour)
	colours := again.(ColorMap)
	if colours["A"] != "red" || len(colours) != 1 {
		t.Errorf("defaults were mutated from outside: %v", colours)
	}
}

func TestDefaults_NumberRejectsText(t *testing.T) {
	d := NewDefaults(map[string]Value{KeyBrick: Text("230mm")})
	if _, ok := d.Number(KeyBrick); ok {
		t.Errorf("text value must not read as a number")
	}
	if _, ok := d.Number(KeySillLevel); ok {
		t.Errorf("missing key must not read as a number")
	}
	if keys := d.Keys(); len(keys) != 1 || keys[0] != KeyBrick {
		t.Errorf("unexpected keys %v", keys)
	}
}

func TestDefaults_NumbersAreRoundedOnOutput(t *testing.T) {
	d := NewDefaults(map[string]Value{KeyWallThickness: Number(1.123456789)})

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"wall_thickness":1.1235}` {
		t.Errorf("unexpected encoding %s", data)
	}
	if n, _ := d.Number(KeyWallThickness); n != 1.123456789 {
		t.Errorf("stored value should stay exact, got %v", n)
	}
}
