package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

const testCID = "bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi"

func proxyRequest(cidPath string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/ipfs/"+cidPath, nil)
	return mux.SetURLVars(req, map[string]string{"cid": cidPath})
}

func TestProxyEchoesContentType(t *testing.T) {
	var gotPath string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer upstream.Close()

	rec := httptest.NewRecorder()
	NewProxyHandler(upstream.URL+"/ipfs/", nil).Fetch(rec, proxyRequest(testCID+"/img.png"))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "png-bytes", rec.Body.String())
	require.Equal(t, "/ipfs/"+testCID+"/img.png", gotPath)
}

func TestProxyDefaultsContentType(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// an explicit empty value keeps net/http from sniffing one
		w.Header()["Content-Type"] = nil
		_, _ = w.Write([]byte{0x00, 0x01})
	}))
	defer upstream.Close()

	rec := httptest.NewRecorder()
	NewProxyHandler(upstream.URL+"/ipfs/", nil).Fetch(rec, proxyRequest(testCID))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
	require.Equal(t, []byte{0x00, 0x01}, rec.Body.Bytes())
}

func TestProxyUpstreamUnreachable(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	url := upstream.URL
	upstream.Close()

	rec := httptest.NewRecorder()
	NewProxyHandler(url+"/ipfs/", nil).Fetch(rec, proxyRequest(testCID))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "Proxy error", rec.Body.String())
}

func TestProxyUpstreamErrorStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway timeout", http.StatusGatewayTimeout)
	}))
	defer upstream.Close()

	rec := httptest.NewRecorder()
	NewProxyHandler(upstream.URL+"/ipfs/", nil).Fetch(rec, proxyRequest(testCID))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "Proxy error", rec.Body.String())
}

func TestProxyRelaysNonCIDPath(t *testing.T) {
	var gotPath string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		http.Error(w, "invalid cid", http.StatusBadRequest)
	}))
	defer upstream.Close()

	rec := httptest.NewRecorder()
	NewProxyHandler(upstream.URL+"/ipfs/", nil).Fetch(rec, proxyRequest("QmNotQuiteACid"))

	require.Equal(t, "/ipfs/QmNotQuiteACid", gotPath)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "Proxy error", rec.Body.String())
}

func TestCanonicalPath(t *testing.T) {
	for _, tc := range []struct {
		name     string
		in       string
		expected string
	}{
		{"cid v1", testCID, testCID},
		{"cid with sub-path", testCID + "/a/b.json", testCID + "/a/b.json"},
		{"cid v0", "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG", "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"},
		{"not a cid", "not-a-cid/x", "not-a-cid/x"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, canonicalPath(tc.in))
		})
	}
}
