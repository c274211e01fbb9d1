package wasmmetrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestIntrospectorCounters(t *testing.T) {
	i := New("test")
	reg := prometheus.NewRegistry()
	require.NoError(t, i.Register(reg))

	i.OnModuleDecoded("m")
	i.OnModuleValidated("m")
	i.OnLink("m", "env", "double")
	i.OnCompile("m", "run")
	i.OnTrap("m", "run", errors.New("trap"))

	require.Equal(t, float64(1), testutil.ToFloat64(i.modulesCompiled))
	require.Equal(t, float64(1), testutil.ToFloat64(i.functionsLinked))
	require.Equal(t, float64(1), testutil.ToFloat64(i.importsResolved))
	require.Equal(t, float64(1), testutil.ToFloat64(i.traps.WithLabelValues("m", "run")))
}
