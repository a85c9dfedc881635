package tmpl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderHTML(t *testing.T) {
	tests := []struct {
		name    string
		tmpl    string
		data    any
		want    string
		wantErr bool
	}{
		{
			name: "simple substitution",
			tmpl: "<h1>{{ .Title }}</h1>",
			data: map[string]string{"Title": "Feasibility Report"},
			want: "<h1>Feasibility Report</h1>",
		},
		{
			name: "escapes html in values",
			tmpl: "<p>{{ .Text }}</p>",
			data: map[string]string{"Text": "<script>alert(1)</script>"},
			want: "<p>&lt;script&gt;alert(1)&lt;/script&gt;</p>",
		},
		{
			name: "humanize function",
			tmpl: "{{ humanize .Key }}",
			data: map[string]string{"Key": "market_summary"},
			want: "Market summary",
		},
		{
			name:    "missing key errors",
			tmpl:    "{{ .Missing }}",
			data:    map[string]string{"Present": "x"},
			wantErr: true,
		},
		{
			name:    "invalid template",
			tmpl:    "{{ .Unclosed",
			data:    nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderHTML(tt.tmpl, tt.data)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFmtTime(t *testing.T) {
	assert.Equal(t, "—", fmtTime(time.Time{}))

	ts := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, "Mar 1, 2024 10:30 UTC", fmtTime(ts))
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "", humanize(""))
	assert.Equal(t, "Risk analysis", humanize("risk_analysis"))
	assert.Equal(t, "Okrs", humanize("okrs"))
}
