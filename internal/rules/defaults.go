package rules

func f64(v float64) *float64 { return &v }
func boolp(v bool) *bool     { return &v }

// Defaults returns the built-in production tables. A YAML overlay loaded via
// Load replaces whole tables, never individual rows, so operators always see
// a complete, self-consistent set.
func Defaults() *Tables {
	return &Tables{
		Taxonomy: Taxonomy{
			FallbackID: "OTHER",
			BaseEvidence: []string{
				"Screenshot of fraudulent transaction(s)",
				"Bank statement showing debit (last 7 days)",
				"Any communication with scammer (SMS, WhatsApp, email)",
			},
			Categories: []Category{
				{
					ID:        "DIGITAL_ARREST",
					Name:      "Digital Arrest Scam",
					RiskScore: 90,
					Keywords: []string{
						"digital arrest", "arrest warrant", "cbi officer", "police officer called",
						"video call from police", "skype call from police", "money laundering case",
						"customs parcel", "narcotics", "court order", "aadhaar misused",
					},
					Evidence: []string{
						"Call recording if available",
						"Screenshot of video call if taken",
						"Note the phone number that called you",
					},
				},
				{
					ID:        "UPI_FRAUD",
					Name:      "UPI Payment Fraud",
					RiskScore: 75,
					Keywords: []string{
						"upi", "phonepe", "google pay", "gpay", "paytm", "qr code",
						"collect request", "upi pin", "wrong transfer",
					},
					Evidence: []string{
						"UPI transaction ID/reference number",
						"Screenshot of UPI app showing transaction",
						"QR code image if scanned",
					},
				},
				{
					ID:        "OTP_SCAM",
					Name:      "OTP Sharing Scam",
					RiskScore: 70,
					Keywords: []string{
						"otp", "one time password", "verification code", "kyc update",
						"card blocked", "account suspended", "bank executive called",
					},
					Evidence: []string{
						"SMS showing OTP request",
						"Screenshot of fake website/link if clicked",
						"Bank alert SMS",
					},
				},
				{
					ID:        "REMOTE_APP",
					Name:      "Remote Access App Fraud",
					RiskScore: 80,
					Keywords: []string{
						"anydesk", "teamviewer", "quick support", "screen share",
						"remote access", "installed an app", "screen mirroring",
					},
					Evidence: []string{
						"Name of app installed (AnyDesk, TeamViewer, etc.)",
						"Do NOT uninstall the app yet",
						"Screenshot of app showing connection ID",
					},
				},
				{
					ID:        "LOAN_APP",
					Name:      "Predatory Loan App",
					RiskScore: 65,
					Keywords: []string{
						"loan app", "instant loan", "loan recovery", "harassment calls",
						"morphed photos", "contacts accessed", "recovery agent",
					},
					Evidence: []string{
						"App name and download source",
						"Screenshots of harassment messages",
						"Loan agreement/terms if available",
					},
				},
				{
					ID:        "INVESTMENT_FRAUD",
					Name:      "Investment / Trading Fraud",
					RiskScore: 70,
					Keywords: []string{
						"investment", "trading app", "guaranteed returns", "stock tips",
						"crypto", "telegram group", "double your money", "ponzi",
					},
					Evidence: []string{
						"Investment app/website details",
						"Screenshots of promised returns",
						"All transaction receipts",
					},
				},
				{
					ID:        "OTHER",
					Name:      "Other Cybercrime",
					RiskScore: 40,
					Keywords:  nil,
				},
			},
		},
		Severity: SeverityConfig{
			Weights: Weights{
				Amount:   0.30,
				Time:     0.25,
				TypeRisk: 0.25,
				Victim:   0.20,
			},
			AmountSaturation: 1_000_000,
			GoldenHourHours:  48,
			GoldenDecay:      50,
			TailStart:        50,
			TailFactor:       0.9,
			TailPeriodHours:  24,
			TimeFloor:        15,
			VictimBaseline:   30,
			VictimFlags: []string{
				"senior citizen", "elderly", "retired", "pensioner",
				"widow", "disabled", "student", "minor",
			},
			Bands: []Band{
				{Name: "CRITICAL", MinScore: 80, SLAHours: 2, Description: "Immediate action required"},
				{Name: "HIGH", MinScore: 60, SLAHours: 8, Description: "Same-day action required"},
				{Name: "MEDIUM", MinScore: 40, SLAHours: 24, Description: "Action within one business day"},
				{Name: "LOW", MinScore: 0, SLAHours: 72, Description: "Standard queue processing"},
			},
			GoldenHourActions: []string{
				"Contact victim's bank to freeze recipient account",
				"File report on the national cybercrime portal",
				"Preserve all evidence (screenshots, call logs, chat history)",
			},
		},
		Routing: RoutingMatrix{
			Rules: []RoutingRule{
				{
					CategoryID:        "DIGITAL_ARREST",
					PrimaryAssignee:   "Cyber Crime Cell",
					SecondaryAssignee: "Local Police Station",
					Jurisdiction:      "State Cyber Cell",
					EscalationPath:    []string{"SP Cyber Crime", "DIG Cyber Operations", "State CID"},
					Note:              "Impersonation of law enforcement; verify caller identity claims",
				},
				{
					CategoryID:        "UPI_FRAUD",
					PrimaryAssignee:   "Bank Nodal Officer",
					SecondaryAssignee: "Cyber Crime Cell",
					Jurisdiction:      "District Cyber Cell",
					EscalationPath:    []string{"NPCI Grievance Cell", "RBI Ombudsman"},
					Note:              "Transaction reversal window depends on recipient bank response",
				},
				{
					CategoryID:        "OTP_SCAM",
					PrimaryAssignee:   "Bank Nodal Officer",
					SecondaryAssignee: "Cyber Crime Cell",
					Jurisdiction:      "District Cyber Cell",
					EscalationPath:    []string{"Bank Fraud Desk", "RBI Ombudsman"},
					Note:              "Request card/account block confirmation from issuing bank",
				},
				{
					CategoryID:        "REMOTE_APP",
					PrimaryAssignee:   "Cyber Crime Cell",
					SecondaryAssignee: "Bank Nodal Officer",
					Jurisdiction:      "State Cyber Cell",
					EscalationPath:    []string{"SP Cyber Crime", "CERT-In"},
					Note:              "Device may still be compromised; advise network isolation",
				},
				{
					CategoryID:        "LOAN_APP",
					PrimaryAssignee:   "Cyber Crime Cell",
					SecondaryAssignee: "Local Police Station",
					Jurisdiction:      "District Cyber Cell",
					EscalationPath:    []string{"SP Cyber Crime", "App Store Abuse Team"},
					Note:              "Document harassment pattern for IPC charges alongside IT Act",
				},
				{
					CategoryID:        "INVESTMENT_FRAUD",
					PrimaryAssignee:   "Economic Offences Wing",
					SecondaryAssignee: "Cyber Crime Cell",
					Jurisdiction:      "State EOW",
					EscalationPath:    []string{"SEBI Complaints Cell", "Enforcement Directorate"},
					Note:              "Collect full money trail before EOW docket submission",
				},
				{
					CategoryID:        "OTHER",
					PrimaryAssignee:   "Cyber Crime Cell",
					SecondaryAssignee: "Local Police Station",
					Jurisdiction:      "District Cyber Cell",
					EscalationPath:    []string{"SP Cyber Crime"},
					Note:              "Manual categorization may be required before assignment",
				},
			},
			Thresholds: []AmountThreshold{
				{Amount: 100_000, Effect: "Amount >= 100,000 - Bank Nodal priority handling"},
				{Amount: 500_000, Effect: "Amount >= 500,000 - Cyber Cell registration mandatory"},
				{Amount: 1_000_000, Effect: "Amount >= 1,000,000 - EOW referral recommended"},
			},
		},
		Policies: PolicySet{
			Policies: []Policy{
				{
					ID:        "POL-GOLDEN-FREEZE",
					Name:      "Golden hour fund freeze",
					Condition: PolicyCondition{GoldenHour: boolp(true)},
					Action:    "Initiate account freeze request with recipient bank immediately",
					Priority:  1,
				},
				{
					ID:        "POL-CRITICAL-NOTIFY",
					Name:      "Critical severity notification",
					Condition: PolicyCondition{SeverityBand: "CRITICAL"},
					Action:    "Notify duty supervisor and open priority incident channel",
					Priority:  1,
				},
				{
					ID:        "POL-VULNERABLE-VICTIM",
					Name:      "Vulnerable victim assistance",
					Condition: PolicyCondition{VictimFlag: boolp(true)},
					Action:    "Assign victim-assistance officer for guided evidence collection",
					Priority:  2,
				},
				{
					ID:        "POL-ARREST-ADVISORY",
					Name:      "Digital arrest advisory",
					Condition: PolicyCondition{CategoryID: "DIGITAL_ARREST"},
					Action:    "Advise victim to disconnect the call; no agency arrests over video call",
					Priority:  2,
				},
				{
					ID:        "POL-HIGH-VALUE",
					Name:      "High value docket",
					Condition: PolicyCondition{AmountGTE: f64(1_000_000)},
					Action:    "Prepare Economic Offences Wing docket with full transaction trail",
					Priority:  3,
				},
			},
		},
	}
}
