package googlemonitoring

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	monitoring "cloud.google.com/go/monitoring/apiv3/v2"
	monitoringpb "cloud.google.com/go/monitoring/apiv3/v2/monitoringpb"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	metricpb "google.golang.org/genproto/googleapis/api/metric"
	"google.golang.org/genproto/googleapis/api/monitoredres"
	"google.golang.org/protobuf/types/known/timestamppb"
)

var errNoTimeSeries = errors.New("no time series created")

// MonitoringClient pushes the service's Prometheus metrics to Cloud Monitoring as custom metrics.
type MonitoringClient struct {
	projectId string
	prefix    string
	gatherer  prometheus.Gatherer
	client    *monitoring.MetricClient
}

func NewMonitoringClient(ctx context.Context, projectId, jsonCredentialsStr, prefix string, gatherer prometheus.Gatherer) (*MonitoringClient, error) {
	var client *monitoring.MetricClient
	var err error
	if jsonCredentialsStr == "" {
		// for prod where you can fetch it from gcp service account
		client, err = monitoring.NewMetricClient(ctx)
	} else {
		client, err = monitoring.NewMetricClient(ctx, option.WithCredentialsJSON([]byte(jsonCredentialsStr)))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create Monitoring client: %w", err)
	}

	return &MonitoringClient{
		projectId: projectId,
		prefix:    prefix,
		gatherer:  gatherer,
		client:    client,
	}, nil
}

func (c *MonitoringClient) Close() error {
	return c.client.Close()
}

// Run pushes metrics every interval until ctx is done. Push errors are logged, not returned.
func (c *MonitoringClient) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.PushMetrics(ctx); err != nil && !errors.Is(err, errNoTimeSeries) {
				log.Error().Err(err).Msg("failed to push metrics")
			}
		}
	}
}

func (c *MonitoringClient) PushMetrics(ctx context.Context) error {
	mfs, err := c.gatherer.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	timeSeries := BuildTimeSeries(mfs, c.projectId, c.prefix, time.Now())
	if len(timeSeries) == 0 {
		return errNoTimeSeries
	}

	if err := c.client.CreateTimeSeries(ctx, &monitoringpb.CreateTimeSeriesRequest{
		Name:       fmt.Sprintf("projects/%s", c.projectId),
		TimeSeries: timeSeries,
	}); err != nil {
		return fmt.Errorf("failed to write time series data: %w", err)
	}

	return nil
}

// BuildTimeSeries converts gathered families whose name starts with prefix into one double-valued
// point per labelled series. Histograms and summaries export their sample sum.
func BuildTimeSeries(mfs []*dto.MetricFamily, projectId, prefix string, now time.Time) []*monitoringpb.TimeSeries {
	var timeSeries []*monitoringpb.TimeSeries

	for _, mf := range mfs {
		if !strings.HasPrefix(mf.GetName(), prefix) {
			continue
		}

		for _, m := range mf.Metric {
			labels := make(map[string]string)
			for _, l := range m.Label {
				labels[l.GetName()] = l.GetValue()
			}

			var value float64
			switch {
			case m.Gauge != nil:
				value = m.Gauge.GetValue()
			case m.Counter != nil:
				value = m.Counter.GetValue()
			case m.Summary != nil:
				value = m.Summary.GetSampleSum()
			case m.Histogram != nil:
				value = m.Histogram.GetSampleSum()
			default:
				log.Debug().Str("metric", mf.GetName()).Msg("unhandled metric type")
				continue
			}

			timeSeries = append(timeSeries, &monitoringpb.TimeSeries{
				Metric: &metricpb.Metric{
					Type:   "custom.googleapis.com/" + mf.GetName(),
					Labels: labels,
				},
				Resource: &monitoredres.MonitoredResource{
					Type: "global",
					Labels: map[string]string{
						"project_id": projectId,
					},
				},
				Points: []*monitoringpb.Point{
					{
						Interval: &monitoringpb.TimeInterval{
							EndTime: timestamppb.New(now),
						},
						Value: &monitoringpb.TypedValue{
							Value: &monitoringpb.TypedValue_DoubleValue{
								DoubleValue: value,
							},
						},
					},
				},
			})
		}
	}

	return timeSeries
}
