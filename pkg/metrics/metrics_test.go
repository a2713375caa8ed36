package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// TestInitMetrics 测试指标初始化
func TestInitMetrics(t *testing.T) {
	InitMetrics()

	if HTTPRequestsTotal == nil {
		t.Error("HTTPRequestsTotal未初始化")
	}
	if HTTPRequestDuration == nil {
		t.Error("HTTPRequestDuration未初始化")
	}
	if HTTPRequestsInProgress == nil {
		t.Error("HTTPRequestsInProgress未初始化")
	}
	if BooksCreatedTotal == nil {
		t.Error("BooksCreatedTotal未初始化")
	}
	if LoansReviewedTotal == nil {
		t.Error("LoansReviewedTotal未初始化")
	}

	// 重复初始化不应panic(promauto重复注册会panic,靠initialized守卫)
	InitMetrics()
}

// TestCounter 测试Counter指标
func TestCounter(t *testing.T) {
	InitMetrics()

	before := getCounterValue(t, BooksCreatedTotal)

	IncCounter(BooksCreatedTotal)
	IncCounter(BooksCreatedTotal)
	IncCounter(BooksCreatedTotal)

	if got := getCounterValue(t, BooksCreatedTotal); got != before+3 {
		t.Errorf("Counter值错误: expected=%f, got=%f", before+3, got)
	}
}

// TestCounterVec 测试CounterVec指标
func TestCounterVec(t *testing.T) {
	InitMetrics()

	IncCounterVec(BookStatusChangesTotal, map[string]string{"target": "AVAILABLE"})
	IncCounterVec(BookStatusChangesTotal, map[string]string{"target": "UNAVAILABLE"})
	IncCounterVec(BookStatusChangesTotal, map[string]string{"target": "AVAILABLE"})

	value := getCounterVecValue(t, BookStatusChangesTotal, map[string]string{"target": "AVAILABLE"})
	if value != 2 {
		t.Errorf("CounterVec值错误: expected=2, got=%f", value)
	}

	IncCounterVec(LoansReviewedTotal, map[string]string{"result": "approved"})
	if got := getCounterVecValue(t, LoansReviewedTotal, map[string]string{"result": "approved"}); got != 1 {
		t.Errorf("CounterVec值错误: expected=1, got=%f", got)
	}
}

// TestGauge 测试Gauge指标
func TestGauge(t *testing.T) {
	InitMetrics()

	before := getGaugeValue(t, HTTPRequestsInProgress)

	IncGauge(HTTPRequestsInProgress)
	IncGauge(HTTPRequestsInProgress)
	if got := getGaugeValue(t, HTTPRequestsInProgress); got != before+2 {
		t.Errorf("Gauge递增后值错误: expected=%f, got=%f", before+2, got)
	}

	DecGauge(HTTPRequestsInProgress)
	if got := getGaugeValue(t, HTTPRequestsInProgress); got != before+1 {
		t.Errorf("Gauge递减后值错误: expected=%f, got=%f", before+1, got)
	}
}

// TestGaugeVec 测试GaugeVec指标
func TestGaugeVec(t *testing.T) {
	InitMetrics()

	SetGaugeVec(CircuitBreakerState, map[string]string{"name": "event-broker"}, 0) // CLOSED
	SetGaugeVec(CircuitBreakerState, map[string]string{"name": "event-broker"}, 1) // OPEN

	value := getGaugeVecValue(t, CircuitBreakerState, map[string]string{"name": "event-broker"})
	if value != 1 {
		t.Errorf("GaugeVec值错误: expected=1, got=%f", value)
	}
}

// TestHistogramVec 测试HistogramVec指标
func TestHistogramVec(t *testing.T) {
	InitMetrics()

	labels := map[string]string{"method": "POST", "path": "/api/v1/books"}
	ObserveHistogramVec(HTTPRequestDuration, labels, 0.05)
	ObserveHistogramVec(HTTPRequestDuration, labels, 0.1)

	count := getHistogramVecCount(t, HTTPRequestDuration, labels)
	if count != 2 {
		t.Errorf("HistogramVec观测次数错误: expected=2, got=%d", count)
	}
}

// 辅助函数：获取Counter值
func getCounterValue(t *testing.T, counter prometheus.Counter) float64 {
	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("读取Counter值失败: %v", err)
	}
	return metric.Counter.GetValue()
}

// 辅助函数：获取CounterVec值
func getCounterVecValue(t *testing.T, counterVec *prometheus.CounterVec, labels map[string]string) float64 {
	var metric dto.Metric
	counter := counterVec.With(labels)
	if err := counter.(prometheus.Counter).Write(&metric); err != nil {
		t.Fatalf("读取CounterVec值失败: %v", err)
	}
	return metric.Counter.GetValue()
}

// 辅助函数：获取Gauge值
func getGaugeValue(t *testing.T, gauge prometheus.Gauge) float64 {
	var metric dto.Metric
	if err := gauge.Write(&metric); err != nil {
		t.Fatalf("读取Gauge值失败: %v", err)
	}
	return metric.Gauge.GetValue()
}

// 辅助函数：获取GaugeVec值
func getGaugeVecValue(t *testing.T, gaugeVec *prometheus.GaugeVec, labels map[string]string) float64 {
	var metric dto.Metric
	gauge := gaugeVec.With(labels)
	if err := gauge.(prometheus.Gauge).Write(&metric); err != nil {
		t.Fatalf("读取GaugeVec值失败: %v", err)
	}
	return metric.Gauge.GetValue()
}

// 辅助函数：获取HistogramVec观测次数
func getHistogramVecCount(t *testing.T, histogramVec *prometheus.HistogramVec, labels map[string]string) uint64 {
	var metric dto.Metric
	histogram := histogramVec.With(labels)
	if err := histogram.(prometheus.Histogram).Write(&metric); err != nil {
		t.Fatalf("读取HistogramVec值失败: %v", err)
	}
	return metric.Histogram.GetSampleCount()
}
