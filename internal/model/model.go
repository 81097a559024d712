package model

import (
	"github.com/growlab/pfal-controller/internal/model/entities"
	"github.com/growlab/pfal-controller/internal/model/messages"
)

// Aliases so the services import one package for shared types.

type (
	VariableKind    = entities.VariableKind
	SensorReading   = entities.SensorReading
	ActuatorKind    = entities.ActuatorKind
	Directive       = entities.Directive
	ProposedCommand = entities.ProposedCommand
	CropProfile     = entities.CropProfile

	SensorData      = messages.SensorData
	ClimateData     = messages.ClimateData
	ActuatorCommand = messages.ActuatorCommand
)

const (
	VariablePH          = entities.VariablePH
	VariableEC          = entities.VariableEC
	VariableTemperature = entities.VariableTemperature
	VariableHumidity    = entities.VariableHumidity

	ActuatorPHPump       = entities.ActuatorPHPump
	ActuatorNutrientPump = entities.ActuatorNutrientPump
	ActuatorMainPump     = entities.ActuatorMainPump
	ActuatorLights       = entities.ActuatorLights
	ActuatorFans         = entities.ActuatorFans

	DirectiveOn      = entities.DirectiveOn
	DirectiveOff     = entities.DirectiveOff
	DirectiveUnknown = entities.DirectiveUnknown
)

var (
	Variables = entities.Variables
	Actuators = entities.Actuators
)
