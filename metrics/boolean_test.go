package metrics

import "testing"

func TestBooleanSetAndGet(t *testing.T) {
	e, d, clk := newTestRig()
	defer d.Shutdown()
	m := NewBoolean(testData("flag"), e, d, clk)

	m.Set(true)
	v, ok := m.TestGetValue("metrics")
	if !ok || v != true {
		t.Fatalf("TestGetValue() = %v, %v; want true, true", v, ok)
	}
}

func TestBooleanOverwrites(t *testing.T) {
	e, d, clk := newTestRig()
	defer d.Shutdown()
	m := NewBoolean(testData("flag"), e, d, clk)

	m.Set(true)
	m.Set(false)
	v, ok := m.TestGetValue("metrics")
	if !ok || v != false {
		t.Fatalf("TestGetValue() = %v, %v; want false, true", v, ok)
	}
}

func TestBooleanAbsentByDefault(t *testing.T) {
	e, d, clk := newTestRig()
	defer d.Shutdown()
	m := NewBoolean(testData("flag"), e, d, clk)

	if _, ok := m.TestGetValue("metrics"); ok {
		t.Fatal("expected no value before Set is called")
	}
}
