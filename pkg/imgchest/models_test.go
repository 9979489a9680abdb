package imgchest

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrivacyUnmarshal(t *testing.T) {
	tests := []struct {
		input   string
		want    Privacy
		wantErr bool
	}{
		{input: `"public"`, want: PrivacyPublic},
		{input: `"hidden"`, want: PrivacyHidden},
		{input: `"secret"`, want: PrivacySecret},
		{input: `"friends"`, wantErr: true},
		{input: `""`, wantErr: true},
		{input: `1`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var p Privacy
			err := json.Unmarshal([]byte(tt.input), &p)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p)
		})
	}
}

func TestIntBool(t *testing.T) {
	t.Run("unmarshal", func(t *testing.T) {
		tests := []struct {
			input   string
			want    bool
			wantErr bool
		}{
			{input: `0`, want: false},
			{input: `1`, want: true},
			{input: `2`, wantErr: true},
			{input: `"1"`, wantErr: true},
			{input: `true`, wantErr: true},
		}

		for _, tt := range tests {
			t.Run(tt.input, func(t *testing.T) {
				var b IntBool
				err := json.Unmarshal([]byte(tt.input), &b)
				if tt.wantErr {
					assert.Error(t, err)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, tt.want, bool(b))
			})
		}
	})

	t.Run("marshal", func(t *testing.T) {
		data, err := json.Marshal(IntBool(true))
		require.NoError(t, err)
		assert.Equal(t, `1`, string(data))

		data, err = json.Marshal(IntBool(false))
		require.NoError(t, err)
		assert.Equal(t, `0`, string(data))
	})
}

func TestStringBool(t *testing.T) {
	t.Run("unmarshal", func(t *testing.T) {
		tests := []struct {
			input   string
			want    bool
			wantErr bool
		}{
			{input: `"true"`, want: true},
			{input: `"false"`, want: false},
			{input: `"yes"`, wantErr: true},
			{input: `true`, wantErr: true},
			{input: `1`, wantErr: true},
		}

		for _, tt := range tests {
			t.Run(tt.input, func(t *testing.T) {
				var b StringBool
				err := json.Unmarshal([]byte(tt.input), &b)
				if tt.wantErr {
					assert.Error(t, err)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, tt.want, bool(b))
			})
		}
	})

	t.Run("marshal", func(t *testing.T) {
		data, err := json.Marshal(StringBool(true))
		require.NoError(t, err)
		assert.Equal(t, `"true"`, string(data))

		data, err = json.Marshal(StringBool(false))
		require.NoError(t, err)
		assert.Equal(t, `"false"`, string(data))
	})
}

func TestPostUnmarshalRejectsBadFlags(t *testing.T) {
	// A post with an out-of-range nsfw flag must not decode silently.
	var post Post
	err := json.Unmarshal([]byte(`{"id": "3qe4gdvj4j2", "nsfw": 2}`), &post)
	assert.Error(t, err)
}
