// Package nutrition computes daily energy needs and macro targets with the
// Mifflin-St Jeor equation.
package nutrition

import (
	"errors"
	"math"
	"strings"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "veryActive"
)

type Goal string

const (
	GoalLose     Goal = "lose"
	GoalMaintain Goal = "maintain"
	GoalGain     Goal = "gain"
)

var activityMultipliers = map[ActivityLevel]float64{
	ActivitySedentary:  1.2,
	ActivityLight:      1.375,
	ActivityModerate:   1.55,
	ActivityActive:     1.725,
	ActivityVeryActive: 1.9,
}

var goalMultipliers = map[Goal]float64{
	GoalLose:     0.8,
	GoalMaintain: 1,
	GoalGain:     1.15,
}

const (
	defaultActivityMultiplier = 1.55
	proteinGramsPerKg         = 2.2
	carbsShare                = 0.45
	fatsShare                 = 0.25
	kcalPerGramCarbs          = 4
	kcalPerGramFat            = 9
)

var ErrInvalidBody = errors.New("weight, height and age must be positive")

// Body holds the inputs of the energy equations. Weight is in kg, height in cm.
type Body struct {
	Weight   float64
	Height   float64
	Age      float64
	Gender   Gender
	Activity ActivityLevel
	Goal     Goal
}

func (b Body) Validate() error {
	if b.Weight <= 0 || b.Height <= 0 || b.Age <= 0 {
		return ErrInvalidBody
	}
	return nil
}

// Macros are daily targets: calories in kcal, the rest in grams.
type Macros struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fats     int `json:"fats"`
}

// BMR is the basal metabolic rate in kcal/day. Anything but male uses the
// female constant.
func BMR(b Body) float64 {
	base := 10*b.Weight + 6.25*b.Height - 5*b.Age
	if Gender(strings.ToLower(string(b.Gender))) == GenderMale {
		return base + 5
	}
	return base - 161
}

// ActivityMultiplier returns the TDEE factor; unknown levels count as moderate.
func ActivityMultiplier(level ActivityLevel) float64 {
	if m, ok := activityMultipliers[level]; ok {
		return m
	}
	return defaultActivityMultiplier
}

// GoalMultiplier returns the calorie adjustment; unknown goals mean maintain.
func GoalMultiplier(goal Goal) float64 {
	if m, ok := goalMultipliers[goal]; ok {
		return m
	}
	return 1
}

// TDEE is the total daily energy expenditure in kcal/day.
func TDEE(b Body) float64 {
	return BMR(b) * ActivityMultiplier(b.Activity)
}

// Targets computes the goal-adjusted calorie and macro targets.
func Targets(b Body) Macros {
	calories := TDEE(b) * GoalMultiplier(b.Goal)
	return Macros{
		Calories: round(calories),
		Protein:  round(b.Weight * proteinGramsPerKg),
		Carbs:    round(calories * carbsShare / kcalPerGramCarbs),
		Fats:     round(calories * fatsShare / kcalPerGramFat),
	}
}

func round(v float64) int {
	return int(math.Round(v))
}
