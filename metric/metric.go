// Package metric publishes lifecycle counters of river components with
// expvar.
package metric

import (
	"expvar"
	"fmt"
	"reflect"
	"sync"
)

const componentsLabel = "river.components"

const (
	// StartCounter counts start calls.
	StartCounter = "Start"
	// PauseCounter counts pause calls.
	PauseCounter = "Pause"
	// ResumeCounter counts resume calls.
	ResumeCounter = "Resume"
	// StopCounter counts stop calls.
	StopCounter = "Stop"
	// ResetCounter counts reset calls.
	ResetCounter = "Reset"
	// FailureCounter counts lifecycle calls which returned an error.
	FailureCounter = "Failure"
)

var (
	components = metrics{
		m: make(map[string]metric),
	}

	counters = []string{
		StartCounter,
		PauseCounter,
		ResumeCounter,
		StopCounter,
		ResetCounter,
		FailureCounter,
	}
)

// Get metrics values for provided component type.
func Get(component interface{}) map[string]string {
	return getCounters(getType(component))
}

// GetLabel returns metrics values for provided label.
func GetLabel(label string) map[string]string {
	return getCounters(label)
}

// GetAll returns counters for all measured components.
func GetAll() map[string]map[string]string {
	m := make(map[string]map[string]string)
	components.Lock()
	defer components.Unlock()
	for component := range components.m {
		m[component] = getCounters(component)
	}
	return m
}

func getCounters(key string) map[string]string {
	m := make(map[string]string)
	for _, counter := range counters {
		v := expvar.Get(name(key, counter))
		if v != nil {
			m[counter] = v.String()
		}
	}
	return m
}

// Add increments the counter of the component type.
func Add(component interface{}, counter string) {
	components.get(getType(component)).add(counter)
}

// AddLabel increments the counter of an arbitrary label, e.g. a
// streamlet category.
func AddLabel(label, counter string) {
	components.get(label).add(counter)
}

type metrics struct {
	sync.Mutex
	m map[string]metric
}

func (m *metrics) get(key string) metric {
	m.Lock()
	defer m.Unlock()
	if metric, ok := m.m[key]; ok {
		return metric
	}
	metric := newMetric(key)
	m.m[key] = metric
	return metric
}

type metric map[string]*expvar.Int

func newMetric(key string) metric {
	m := make(metric, len(counters))
	for _, counter := range counters {
		m[counter] = expvar.NewInt(name(key, counter))
	}
	return m
}

func (m metric) add(counter string) {
	if v, ok := m[counter]; ok {
		v.Add(1)
	}
}

func name(key, counter string) string {
	return fmt.Sprintf("%s.%s.%s", componentsLabel, key, counter)
}

func getType(component interface{}) string {
	rv := reflect.ValueOf(component)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	return rv.Type().String()
}
