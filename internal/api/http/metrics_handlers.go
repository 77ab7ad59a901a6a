package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Ibrahim-Lokman/otel-poc/internal/domain/session"
	"github.com/Ibrahim-Lokman/otel-poc/internal/infrastructure/monitoring"
)

// DashboardSnapshot aggregates storefront metrics and session analytics
// for the JSON endpoint and the HTML dashboard.
type DashboardSnapshot struct {
	Timestamp time.Time           `json:"timestamp"`
	Metrics   monitoring.Snapshot `json:"metrics"`
	Sessions  session.Analytics   `json:"sessions"`
	Summary   MetricsSummary      `json:"summary"`
}

// MetricsSummary provides high-level metrics
type MetricsSummary struct {
	TotalRequests       int64   `json:"total_requests"`
	AvgResponseTimeMs   float64 `json:"avg_response_time_ms"`
	ConversionRate      float64 `json:"conversion_rate"`
	CartAbandonmentRate float64 `json:"cart_abandonment_rate"`
	ActiveSessions      int     `json:"active_sessions"`
	StreamClients       int     `json:"stream_clients"`
	UptimeSeconds       float64 `json:"uptime_seconds"`
}

// MetricsJSON returns all metrics and session analytics as one document
func (h *Handlers) MetricsJSON(c *gin.Context) {
	metrics := h.collector.Snapshot()
	analytics := h.tracker.Analytics()

	c.JSON(http.StatusOK, DashboardSnapshot{
		Timestamp: time.Now(),
		Metrics:   metrics,
		Sessions:  analytics,
		Summary: MetricsSummary{
			TotalRequests:       metrics.Counters[monitoring.CounterHTTPRequests],
			AvgResponseTimeMs:   metrics.AvgResponseTimeMs,
			ConversionRate:      metrics.ConversionRate,
			CartAbandonmentRate: metrics.CartAbandonmentRate,
			ActiveSessions:      analytics.ActiveSessions,
			StreamClients:       h.hub.ClientCount(),
			UptimeSeconds:       metrics.UptimeSeconds,
		},
	})
}

// MetricsDashboard returns an HTML dashboard
func (h *Handlers) MetricsDashboard(c *gin.Context) {
	html := `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Storefront Telemetry Dashboard</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
            background: #0a0a0a;
            color: #e0e0e0;
            padding: 20px;
        }
        .container { max-width: 1400px; margin: 0 auto; }
        h1 {
            font-size: 2rem;
            margin-bottom: 10px;
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            -webkit-background-clip: text;
            -webkit-text-fill-color: transparent;
        }
        .subtitle { color: #888; margin-bottom: 30px; }
        .grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(300px, 1fr));
            gap: 20px;
            margin-bottom: 20px;
        }
        .card {
            background: #1a1a1a;
            border-radius: 12px;
            padding: 20px;
            border: 1px solid #333;
            transition: transform 0.2s, border-color 0.2s;
        }
        .card:hover {
            transform: translateY(-2px);
            border-color: #667eea;
        }
        .card h2 {
            font-size: 1.2rem;
            margin-bottom: 15px;
            color: #667eea;
        }
        .metric {
            display: flex;
            justify-content: space-between;
            padding: 10px 0;
            border-bottom: 1px solid #2a2a2a;
        }
        .metric:last-child { border-bottom: none; }
        .metric-label { color: #999; }
        .metric-value {
            font-weight: 600;
            color: #fff;
            font-family: 'Courier New', monospace;
        }
        .metric-value.good { color: #4ade80; }
        .metric-value.warning { color: #fbbf24; }
        .metric-value.error { color: #f87171; }
        .refresh-btn {
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            color: white;
            border: none;
            padding: 12px 24px;
            border-radius: 8px;
            cursor: pointer;
            font-size: 1rem;
            margin-bottom: 20px;
            transition: opacity 0.2s;
        }
        .refresh-btn:hover { opacity: 0.9; }
        .timestamp {
            color: #666;
            text-align: center;
            margin-top: 20px;
            font-size: 0.9rem;
        }
        .endpoint-link {
            display: inline-block;
            margin: 10px 10px 20px 0;
            padding: 8px 16px;
            background: #2a2a2a;
            color: #667eea;
            text-decoration: none;
            border-radius: 6px;
            font-size: 0.9rem;
            border: 1px solid #333;
            transition: all 0.2s;
        }
        .endpoint-link:hover {
            background: #333;
            border-color: #667eea;
        }
    </style>
</head>
<body>
    <div class="container">
        <h1>Storefront Telemetry Dashboard</h1>
        <p class="subtitle">Live funnel metrics and session analytics</p>

        <div>
            <a href="/metrics" class="endpoint-link">Prometheus Metrics</a>
            <a href="/metrics/json" class="endpoint-link">JSON Format</a>
            <a href="/sessions/analytics" class="endpoint-link">Session Analytics</a>
            <a href="/health" class="endpoint-link">Health Check</a>
        </div>

        <button class="refresh-btn" onclick="loadMetrics()">Refresh Metrics</button>

        <div id="metrics-container">
            <p style="text-align: center; color: #666;">Loading metrics...</p>
        </div>

        <p class="timestamp" id="timestamp"></p>
    </div>

    <script>
        function formatValue(value) {
            if (typeof value === 'number') {
                if (value > 1000000) return (value / 1000000).toFixed(2) + 'M';
                if (value > 1000) return (value / 1000).toFixed(2) + 'K';
                if (value < 1 && value > 0) return value.toFixed(3);
                return value.toFixed(2);
            }
            return value;
        }

        function formatLabel(key) {
            return key.replace(/_/g, ' ').replace(/\b\w/g, l => l.toUpperCase());
        }

        function getValueClass(label, value) {
            if (typeof value !== 'number') return '';
            if (label.includes('failed') || label.includes('error')) {
                return value > 0 ? 'error' : 'good';
            }
            if (label.includes('abandonment')) {
                return value < 0 ? 'warning' : '';
            }
            if (label.includes('response_time')) {
                if (value < 100) return 'good';
                if (value < 1000) return 'warning';
                return 'error';
            }
            return '';
        }

        function metricRow(label, value, cls) {
            return '<div class="metric"><span class="metric-label">' + label +
                '</span><span class="metric-value ' + (cls || '') + '">' + value + '</span></div>';
        }

        function renderMetrics(data) {
            const container = document.getElementById('metrics-container');
            const summary = data.summary || {};
            const metrics = data.metrics || {};
            const sessions = data.sessions || {};
            const counters = metrics.counters || {};
            const gauges = metrics.gauges || {};

            let html = '<div class="grid">';

            // Summary Card
            html += '<div class="card"><h2>Summary</h2>';
            html += metricRow('Total Requests', formatValue(summary.total_requests || 0));
            html += metricRow('Avg Response', formatValue(summary.avg_response_time_ms || 0) + ' ms',
                getValueClass('response_time', summary.avg_response_time_ms));
            html += metricRow('Conversion Rate', (summary.conversion_rate || 0).toFixed(2) + '%',
                summary.conversion_rate > 0 ? 'good' : '');
            html += metricRow('Cart Abandonment', (summary.cart_abandonment_rate || 0).toFixed(2) + '%',
                getValueClass('abandonment', summary.cart_abandonment_rate));
            html += metricRow('Active Sessions', formatValue(summary.active_sessions || 0));
            html += metricRow('Stream Clients', formatValue(summary.stream_clients || 0));
            html += metricRow('Uptime', formatValue(summary.uptime_seconds || 0) + ' s', 'good');
            html += '</div>';

            // Funnel Card
            html += '<div class="card"><h2>Purchase Funnel</h2>';
            html += metricRow('Products Viewed', formatValue(counters.products_viewed || 0));
            html += metricRow('Cart Updates', formatValue(counters.cart_updated || 0));
            html += metricRow('Checkouts Initiated', formatValue(counters.checkout_initiated || 0));
            html += metricRow('Orders Completed', formatValue(counters.orders_completed || 0),
                counters.orders_completed > 0 ? 'good' : '');
            html += '</div>';

            // Counters Card
            if (Object.keys(counters).length > 0) {
                html += '<div class="card"><h2>Counters</h2>';
                for (const [key, value] of Object.entries(counters)) {
                    html += metricRow(formatLabel(key), formatValue(value), getValueClass(key, value));
                }
                html += '</div>';
            }

            // Gauges Card
            if (Object.keys(gauges).length > 0) {
                html += '<div class="card"><h2>Gauges</h2>';
                for (const [key, value] of Object.entries(gauges)) {
                    html += metricRow(formatLabel(key), formatValue(value), getValueClass(key, value));
                }
                html += '</div>';
            }

            // Sessions Card
            html += '<div class="card"><h2>Sessions</h2>';
            html += metricRow('Total', formatValue(sessions.total_sessions || 0));
            html += metricRow('Active', formatValue(sessions.active_sessions || 0));
            html += metricRow('Completed', formatValue(sessions.completed_sessions || 0));
            html += metricRow('Avg Duration', formatValue(sessions.avg_session_duration_seconds || 0) + ' s');
            const top = sessions.most_common_actions || [];
            for (const action of top) {
                html += metricRow(formatLabel(action.name), formatValue(action.count));
            }
            html += '</div>';

            html += '</div>';
            container.innerHTML = html;

            document.getElementById('timestamp').textContent =
                'Last updated: ' + new Date(data.timestamp).toLocaleString();
        }

        function loadMetrics() {
            fetch('/metrics/json')
                .then(response => response.json())
                .then(data => renderMetrics(data))
                .catch(error => {
                    console.error('Error loading metrics:', error);
                    document.getElementById('metrics-container').innerHTML =
                        '<p style="text-align: center; color: #f87171;">Error loading metrics</p>';
                });
        }

        // Auto-refresh every 5 seconds
        loadMetrics();
        setInterval(loadMetrics, 5000);
    </script>
</body>
</html>`

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, html)
}
