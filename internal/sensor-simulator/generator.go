package sensor_simulator

import (
	"math/rand"
	"sync"
	"time"

	"github.com/growlab/pfal-controller/internal/model"
)

// ====== Tunables ======
const (
	// deriva per minuto a attuatori spenti: la coltura consuma nutrienti e
	// acidifica lentamente la soluzione.
	phDriftPerMin = 0.004
	ecDriftPerMin = 0.002

	// spinta per minuto con la pompa accesa. Le pompe lavorano a impulsi di
	// ~1-2s, quindi l'effetto di un singolo impulso resta piccolo.
	phPumpGainPerMin = 0.60
	ecPumpGainPerMin = 0.25

	// clima: le luci scaldano, le ventole raffreddano e asciugano, la
	// traspirazione alza l'umidità.
	ambientTemp       = 22.0
	lightsHeatPerMin  = 0.15
	fansCoolPerMin    = 0.40
	ambientPullPerMin = 0.02

	transpirationPerMin = 0.20
	fansDryPerMin       = 0.80

	basePressure = 1013.25
)

// Sample è una fotografia completa della camera di crescita.
type Sample struct {
	PH          float64
	EC          float64
	Temperature float64
	Humidity    float64
	Pressure    float64
	At          time.Time
}

// ChamberState tiene i flag degli attuatori come li vede il simulatore.
type ChamberState struct {
	PHPump       bool
	NutrientPump bool
	MainPump     bool
	Lights       bool
	Fans         bool
}

// DataGenerator mantiene lo stato interno della camera e lo integra nel tempo.
// Ogni Next() avanza la fisica del tempo trascorso dall'ultima chiamata.
type DataGenerator struct {
	mu   sync.Mutex
	last time.Time

	ph          float64
	ec          float64
	temperature float64
	humidity    float64
	pressure    float64

	actuators ChamberState
	rng       *rand.Rand
}

// NewDataGenerator parte da una camera in equilibrio, con un piccolo scarto
// casuale così due simulatori non pubblicano mai le stesse curve.
func NewDataGenerator(seed int64) *DataGenerator {
	rng := rand.New(rand.NewSource(seed))
	return &DataGenerator{
		last:        time.Now().UTC(),
		ph:          6.0 + rng.Float64()*0.2 - 0.1,
		ec:          1.5 + rng.Float64()*0.1 - 0.05,
		temperature: ambientTemp + rng.Float64()*2,
		humidity:    60 + rng.Float64()*5,
		pressure:    basePressure,
		rng:         rng,
	}
}

// SetActuator riflette un comando ricevuto dal controller.
func (g *DataGenerator) SetActuator(kind model.ActuatorKind, on bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch kind {
	case model.ActuatorPHPump:
		g.actuators.PHPump = on
	case model.ActuatorNutrientPump:
		g.actuators.NutrientPump = on
	case model.ActuatorMainPump:
		g.actuators.MainPump = on
	case model.ActuatorLights:
		g.actuators.Lights = on
	case model.ActuatorFans:
		g.actuators.Fans = on
	}
}

// State restituisce i flag correnti (per log e test).
func (g *DataGenerator) State() ChamberState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.actuators
}

// Next integra la fisica sul tempo trascorso e restituisce un campione con un
// filo di rumore di misura.
func (g *DataGenerator) Next() Sample {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now().UTC()
	dtMin := now.Sub(g.last).Minutes()
	if dtMin < 0 {
		dtMin = 0
	}
	g.step(dtMin)
	g.last = now

	return Sample{
		PH:          g.ph + g.rng.NormFloat64()*0.01,
		EC:          g.ec + g.rng.NormFloat64()*0.005,
		Temperature: g.temperature + g.rng.NormFloat64()*0.05,
		Humidity:    g.humidity + g.rng.NormFloat64()*0.2,
		Pressure:    g.pressure + g.rng.NormFloat64()*0.1,
		At:          now,
	}
}

// step avanza lo stato di dtMin minuti. Caller holds g.mu.
func (g *DataGenerator) step(dtMin float64) {
	// soluzione nutritiva
	if g.actuators.PHPump {
		g.ph += phPumpGainPerMin * dtMin
	} else {
		g.ph -= phDriftPerMin * dtMin
	}
	if g.actuators.NutrientPump {
		g.ec += ecPumpGainPerMin * dtMin
	} else {
		g.ec -= ecDriftPerMin * dtMin
	}
	g.ph = clamp(g.ph, 4.5, 8.5)
	g.ec = clamp(g.ec, 0.2, 3.5)

	// temperatura: le luci scaldano, le ventole raffreddano, il resto tende
	// lentamente all'ambiente.
	if g.actuators.Lights {
		g.temperature += lightsHeatPerMin * dtMin
	}
	if g.actuators.Fans {
		g.temperature -= fansCoolPerMin * dtMin
	}
	g.temperature += (ambientTemp - g.temperature) * ambientPullPerMin * dtMin
	g.temperature = clamp(g.temperature, 10, 45)

	// umidità: traspirazione continua, più forte a luci accese; le ventole
	// ricambiano l'aria e asciugano.
	rise := transpirationPerMin
	if g.actuators.Lights {
		rise *= 1.5
	}
	g.humidity += rise * dtMin
	if g.actuators.Fans {
		g.humidity -= fansDryPerMin * dtMin
	}
	g.humidity = clamp(g.humidity, 20, 95)

	// pressione: passeggiata casuale attorno al valore base
	g.pressure += g.rng.NormFloat64() * 0.05 * dtMin
	g.pressure = clamp(g.pressure, basePressure-30, basePressure+30)
}

// ===== Helpers =====

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
